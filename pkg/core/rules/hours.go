package rules

import (
	"fmt"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// MaxTotalHoursConfig caps the monthly hour total per employee
type MaxTotalHoursConfig struct {
	MaxTotalHours float64 `json:"max_total_hours" validate:"min=0"`
}

// MaxTotalHours checks that no employee's assigned hours for the month
// exceed the cap. Employees flagged ExcludeFromHours are skipped.
type MaxTotalHours struct {
	base
	Config MaxTotalHoursConfig
}

func (r *MaxTotalHours) config() any { return &r.Config }

func (r *MaxTotalHours) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for _, emp := range ctx.Employees {
		if emp.ExcludeFromHours || !r.inScope(emp) {
			continue
		}
		total := monthHours(ctx, emp.ID)
		if total > r.Config.MaxTotalHours {
			v := r.violation(fmt.Sprintf(
				"%s has %.1f hours, maximum is %.1f", emp.Name, total, r.Config.MaxTotalHours))
			v.EmployeeID = emp.ID
			v.Metadata = map[string]any{
				"total_hours": total,
				"max_hours":   r.Config.MaxTotalHours,
			}
			violations = append(violations, v)
		}
	}

	return violations
}

// Enforcement modes for the employee hours limit rule
const (
	HoursEnforcementExact = "exact"
	HoursEnforcementRange = "range"
)

// EmployeeHoursLimitConfig targets an exact monthly hour total or a
// [MinHours, MaxHours] range, selected by Enforcement
type EmployeeHoursLimitConfig struct {
	Enforcement string  `json:"enforcement" validate:"omitempty,oneof=exact range"`
	TargetHours float64 `json:"target_hours,omitempty" validate:"min=0"`
	MinHours    float64 `json:"min_hours,omitempty" validate:"min=0"`
	MaxHours    float64 `json:"max_hours,omitempty" validate:"min=0"`
}

// EmployeeHoursLimit checks monthly hour quotas per employee. Employees
// flagged ExcludeFromHours are skipped.
type EmployeeHoursLimit struct {
	base
	Config EmployeeHoursLimitConfig
}

func (r *EmployeeHoursLimit) config() any { return &r.Config }

func (r *EmployeeHoursLimit) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for _, emp := range ctx.Employees {
		if emp.ExcludeFromHours || !r.inScope(emp) {
			continue
		}
		total := monthHours(ctx, emp.ID)

		var msg string
		switch r.Config.Enforcement {
		case HoursEnforcementExact:
			if total != r.Config.TargetHours {
				msg = fmt.Sprintf("%s has %.1f hours, target is %.1f",
					emp.Name, total, r.Config.TargetHours)
			}
		default:
			if total < r.Config.MinHours {
				msg = fmt.Sprintf("%s has %.1f hours, minimum is %.1f",
					emp.Name, total, r.Config.MinHours)
			} else if r.Config.MaxHours > 0 && total > r.Config.MaxHours {
				msg = fmt.Sprintf("%s has %.1f hours, maximum is %.1f",
					emp.Name, total, r.Config.MaxHours)
			}
		}
		if msg == "" {
			continue
		}

		v := r.violation(msg)
		v.EmployeeID = emp.ID
		v.Metadata = map[string]any{"total_hours": total}
		violations = append(violations, v)
	}

	return violations
}

// monthHours sums the shift hours assigned to an employee over the month
func monthHours(ctx *Context, employeeID string) float64 {
	total := 0.0
	for day := 1; day <= ctx.DaysInMonth(); day++ {
		entry, ok := ctx.EntryFor(employeeID, day)
		if !ok {
			continue
		}
		if shift, ok := ctx.Shift(entry.ShiftID); ok {
			total += shift.Hours
		}
	}
	return total
}
