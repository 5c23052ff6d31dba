package service

import (
	"github.com/alexanderramin/taskline/internal/domain"
	"github.com/alexanderramin/taskline/internal/scheduler"
)

type noticeService struct {
	ws *Workspace
}

func NewNoticeService(ws *Workspace) NoticeService {
	return &noticeService{ws: ws}
}

// Scan is read-only: it never touches the board.
func (s *noticeService) Scan(horizonDays int) []scheduler.Notice {
	return scheduler.ScanDue(s.ws.state.Projects, s.ws.Today(), horizonDays)
}

type checkService struct {
	ws *Workspace
}

func NewCheckService(ws *Workspace) CheckService {
	return &checkService{ws: ws}
}

func (s *checkService) Check() []domain.Violation {
	var out []domain.Violation
	for _, p := range s.ws.state.Projects {
		out = append(out, domain.CheckInvariants(p)...)
	}
	return out
}
