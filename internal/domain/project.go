package domain

import "time"

// Project is the top-level scope owning PRDs, tasks, personas, and artifacts.
type Project struct {
	ID          string
	Name        string
	Description string // optional
	CreatedAt   time.Time
	PRDIDs      []string
}

// PRD is a parsed requirements document. Immutable after creation.
type PRD struct {
	ID          string
	ProjectID   string
	Title       string
	Objectives  []string
	TechStack   []string
	Constraints []string
	RawMarkdown string
	CreatedAt   time.Time
}
