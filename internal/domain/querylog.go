package domain

import (
	"encoding/json"
	"time"
)

// LogStatus is the terminal (or initial) state of a query log entry.
type LogStatus string

const (
	StatusPending  LogStatus = "pending"
	StatusAnswered LogStatus = "answered"
	StatusBlocked  LogStatus = "blocked"
	StatusError    LogStatus = "error"
)

// LogEntry is one durable record per user request. Created pending at
// request start, written with exactly one terminal status at request end,
// never mutated afterward.
type LogEntry struct {
	ID           string
	CreatedAt    time.Time
	UserMessage  string
	FinalAnswer  string
	Status       LogStatus
	BlockedBy    string
	ErrorMessage string
}

// LogPart is an append-only per-stage child of a LogEntry.
type LogPart struct {
	ID                string
	EntryID           string
	Stage             Stage
	ModelID           string
	AgentName         string
	UsedCuratedConfig *bool
	Blocked           *bool
	Result            json.RawMessage
	CreatedAt         time.Time
}
