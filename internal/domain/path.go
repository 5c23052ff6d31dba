package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// NodePath addresses a task by the child index at each depth, starting from
// the project root. Paths are positional: moving a task changes its path.
type NodePath []int

// ParsePath parses a dotted path such as "0.2.1". An empty string is the root.
func ParsePath(s string) (NodePath, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return NodePath{}, nil
	}
	parts := strings.Split(s, ".")
	path := make(NodePath, len(parts))
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid task path %q", s)
		}
		path[i] = n
	}
	return path, nil
}

func (p NodePath) String() string {
	parts := make([]string, len(p))
	for i, n := range p {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ".")
}

// IsRoot reports whether the path addresses the project root.
func (p NodePath) IsRoot() bool {
	return len(p) == 0
}

// Parent returns the path of the containing task (root for top-level tasks).
func (p NodePath) Parent() NodePath {
	if len(p) == 0 {
		return NodePath{}
	}
	return p.clone()[:len(p)-1]
}

// Index returns the position within the parent's children.
func (p NodePath) Index() int {
	if len(p) == 0 {
		return -1
	}
	return p[len(p)-1]
}

// Child returns the path of the i-th child.
func (p NodePath) Child(i int) NodePath {
	out := make(NodePath, len(p)+1)
	copy(out, p)
	out[len(p)] = i
	return out
}

// Equal reports whether both paths address the same position.
func (p NodePath) Equal(other NodePath) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// IsAncestorOf reports whether p is a strict prefix of other.
func (p NodePath) IsAncestorOf(other NodePath) bool {
	if len(p) >= len(other) {
		return false
	}
	for i := range p {
		if p[i] != other[i] {
			return false
		}
	}
	return true
}

// Ancestors returns the paths of every enclosing task, nearest first.
func (p NodePath) Ancestors() []NodePath {
	var out []NodePath
	for cur := p.Parent(); len(cur) > 0; cur = cur.Parent() {
		out = append(out, cur)
	}
	return out
}

func (p NodePath) clone() NodePath {
	out := make(NodePath, len(p))
	copy(out, p)
	return out
}

// Address identifies a task across the whole board.
type Address struct {
	ProjectID string
	Path      NodePath
}

func (a Address) String() string {
	if a.Path.IsRoot() {
		return a.ProjectID
	}
	return a.ProjectID + ":" + a.Path.String()
}

// ParseAddress parses "P3:0.1" (or "P3" for the project root).
func ParseAddress(s string) (Address, error) {
	projectID, pathStr, _ := strings.Cut(s, ":")
	if projectID == "" {
		return Address{}, fmt.Errorf("invalid task address %q (expected PROJECT:PATH)", s)
	}
	path, err := ParsePath(pathStr)
	if err != nil {
		return Address{}, err
	}
	return Address{ProjectID: projectID, Path: path}, nil
}
