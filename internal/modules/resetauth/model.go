package resetauth

import (
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
)

// LogCollection is the append-only audit trail of reset attempts. Entries are
// written here only; the admin screens never mutate them.
const LogCollection = "resetLogs"

const (
	StatusPending = "pending"
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusError   = "error"
)

type LogEntry struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	IP        string `json:"ip"`
	Status    string `json:"status"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

func (e LogEntry) RecordID() string { return e.ID }

func DecodeLog(d docstore.Document) LogEntry {
	return LogEntry{
		ID:        d.ID,
		Email:     d.Str("email", "N/A"),
		IP:        d.Str("ip", "unknown"),
		Status:    d.Str("status", StatusPending),
		Error:     d.Str("error", ""),
		Timestamp: docstore.FormatTime(d.CreatedAt),
	}
}

// LogProjection backs the reset-logs screen: search by email or status,
// newest first by store order.
func LogProjection() liststate.Projection[LogEntry] {
	return liststate.Projection[LogEntry]{
		SearchText: func(e LogEntry) []string { return []string{e.Email, e.Status, e.IP} },
		Filters: map[string]func(LogEntry) bool{
			StatusSuccess: func(e LogEntry) bool { return e.Status == StatusSuccess },
			StatusFailed:  func(e LogEntry) bool { return e.Status == StatusFailed },
			StatusError:   func(e LogEntry) bool { return e.Status == StatusError },
		},
		Sorts: map[string]func(a, b LogEntry) bool{},
	}
}
