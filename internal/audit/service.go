package audit

import (
	"log/slog"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal/core/clock"
)

// Repository defines the data access methods for the audit trail.
type Repository interface {
	Append(entry *Entry) error
	ListFor(employeeID string, limit int, beforeSeq int64) ([]*Entry, error)
}

// Trail appends immutable, time-ordered entries. It never retries storage
// failures itself; that is the caller's call.
type Trail struct {
	repo   Repository
	clock  clock.Clock
	logger *slog.Logger
}

func NewTrail(repo Repository, clk clock.Clock, logger *slog.Logger) *Trail {
	return &Trail{
		repo:   repo,
		clock:  clk,
		logger: logger,
	}
}

// Append inserts one entry. The storage layer assigns the monotonic sequence.
func (t *Trail) Append(entry *Entry) error {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = t.clock.Now()
	}

	if err := t.repo.Append(entry); err != nil {
		t.logger.Error("failed to append audit entry",
			"error", err,
			"employee_id", entry.EmployeeID,
			"action", entry.Action)
		return err
	}

	t.logger.Debug("audit entry appended",
		"employee_id", entry.EmployeeID,
		"action", entry.Action,
		"seq", entry.Seq)
	return nil
}

// ListFor returns entries reverse-chronologically. A beforeSeq of 0 starts
// from the newest entry; passing the last seq of the previous page restarts
// the sequence.
func (t *Trail) ListFor(employeeID string, limit int, beforeSeq int64) ([]*Entry, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	entries, err := t.repo.ListFor(employeeID, limit, beforeSeq)
	if err != nil {
		t.logger.Error("failed to list audit entries", "error", err, "employee_id", employeeID)
		return nil, err
	}
	return entries, nil
}
