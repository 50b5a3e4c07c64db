package shift

import (
	"fmt"
	"strings"
	"time"

	errors "github.com/ByteCrister/bd-travel-spirit-support-system-sub000/internal"
)

// TimeLayout is the local time-of-day form shifts are expressed in.
const TimeLayout = "15:04"

var weekdayLabels = []string{"mon", "tue", "wed", "thu", "fri", "sat", "sun"}

// Definition is one recurring weekly shift. Purely data; it has no lifecycle
// beyond its parent employee record.
type Definition struct {
	ID         string   `json:"id"`
	EmployeeID string   `json:"employee_id"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	Weekdays   []string `json:"weekdays"`
}

// Validate checks basic time-range sanity: parseable times, start before
// end, known weekday labels.
func (d *Definition) Validate() *errors.AppError {
	start, err := time.Parse(TimeLayout, d.StartTime)
	if err != nil {
		return errors.NewValidationFieldError("start_time",
			fmt.Sprintf("start_time must be in %s form", TimeLayout), errors.ErrCodeInvalidShiftRange)
	}
	end, err := time.Parse(TimeLayout, d.EndTime)
	if err != nil {
		return errors.NewValidationFieldError("end_time",
			fmt.Sprintf("end_time must be in %s form", TimeLayout), errors.ErrCodeInvalidShiftRange)
	}
	if !start.Before(end) {
		return errors.NewValidationFieldError("start_time",
			"start_time must be before end_time", errors.ErrCodeInvalidShiftRange)
	}
	for _, day := range d.Weekdays {
		if !isWeekday(day) {
			return errors.NewValidationFieldError("weekdays",
				fmt.Sprintf("unknown weekday label %q", day), errors.ErrCodeInvalidShiftRange)
		}
	}
	return nil
}

// ValidateAll validates a full schedule; an empty schedule is legal.
func ValidateAll(defs []*Definition) *errors.AppError {
	for _, d := range defs {
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func isWeekday(label string) bool {
	l := strings.ToLower(label)
	for _, w := range weekdayLabels {
		if l == w {
			return true
		}
	}
	return false
}
