package salary

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is one effective salary span: [EffectiveFrom, EffectiveTo). A nil
// EffectiveTo marks the open, still-current period.
type Period struct {
	ID            string          `json:"id"`
	EmployeeID    string          `json:"employee_id"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	EffectiveFrom time.Time       `json:"effective_from"`
	EffectiveTo   *time.Time      `json:"effective_to,omitempty"`
	Reason        string          `json:"reason"`
	CreatedAt     time.Time       `json:"created_at"`
}

// IsOpen reports whether this is the current period.
func (p *Period) IsOpen() bool {
	return p.EffectiveTo == nil
}

// Overlaps reports whether two half-open ranges intersect. Open periods
// extend to infinity.
func (p *Period) Overlaps(other *Period) bool {
	pEnd := endOrMax(p.EffectiveTo)
	oEnd := endOrMax(other.EffectiveTo)
	return p.EffectiveFrom.Before(oEnd) && other.EffectiveFrom.Before(pEnd)
}

func endOrMax(t *time.Time) time.Time {
	if t == nil {
		// far future sentinel for open periods
		return time.Date(9999, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	return *t
}
