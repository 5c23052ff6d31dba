package repository

import (
	"time"

	"github.com/alexanderramin/taskline/internal/domain"
)

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

func countTasks(s *domain.Snapshot) int {
	n := 0
	for _, p := range s.Projects {
		n += p.TaskCount()
	}
	return n
}
