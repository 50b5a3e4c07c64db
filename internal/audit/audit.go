package audit

import (
	"encoding/json"
	"time"

	"github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
)

// Action enumerates every state-changing operation recorded in the trail.
const (
	ActionCreated             = "created"
	ActionUpdated             = "updated"
	ActionStatusChanged       = "statusChanged"
	ActionLeavingDateSet      = "leavingDateSet"
	ActionSoftDeleted         = "softDeleted"
	ActionRestored            = "restored"
	ActionCompensationChanged = "compensationChanged"
	ActionShiftsReplaced      = "shiftsReplaced"
	ActionPayPeriodOpened     = "payPeriodOpened"
	ActionPaymentPaid         = "paymentPaid"
	ActionPaymentFailed       = "paymentFailed"
	ActionPaymentRetried      = "paymentRetried"
)

// Entry is immutable once written. Corrections are modeled as new entries
// referencing the old one, not edits.
type Entry struct {
	Seq           int64           `json:"seq"`
	EmployeeID    string          `json:"employee_id"`
	Action        string          `json:"action"`
	ActorID       string          `json:"actor_id"`
	ActorKind     string          `json:"actor_kind"`
	Note          *string         `json:"note,omitempty"`
	Diff          json.RawMessage `json:"diff,omitempty"`
	CorrelationID *string         `json:"correlation_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// FieldChange captures a before/after pair for one field.
type FieldChange struct {
	Before interface{} `json:"before"`
	After  interface{} `json:"after"`
}

// Diff is a structured before/after snapshot keyed by field name.
type Diff map[string]FieldChange

func (d Diff) JSON() json.RawMessage {
	if len(d) == 0 {
		return nil
	}
	b, err := json.Marshal(d)
	if err != nil {
		return nil
	}
	return b
}

// NewEntry builds an entry for actor; Seq and CreatedAt are assigned on
// append.
func NewEntry(employeeID, action string, actor internal.Actor) *Entry {
	return &Entry{
		EmployeeID: employeeID,
		Action:     action,
		ActorID:    actor.ID,
		ActorKind:  string(actor.Kind),
	}
}

func (e *Entry) WithNote(note string) *Entry {
	e.Note = &note
	return e
}

func (e *Entry) WithDiff(d Diff) *Entry {
	e.Diff = d.JSON()
	return e
}

func (e *Entry) WithCorrelationID(id string) *Entry {
	e.CorrelationID = &id
	return e
}
