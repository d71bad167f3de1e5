package rules

import (
	"fmt"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// MaxConsecutiveWorkDaysConfig limits uninterrupted runs of working days
type MaxConsecutiveWorkDaysConfig struct {
	MaxDays int `json:"max_days" validate:"min=0"`
}

// MaxConsecutiveWorkDays checks that no employee works more than MaxDays
// calendar days in a row. A day off or a day with no entry resets the run.
// Registered for both max_consecutive_shifts and max_consecutive_work_days.
type MaxConsecutiveWorkDays struct {
	base
	Config MaxConsecutiveWorkDaysConfig
}

func (r *MaxConsecutiveWorkDays) config() any { return &r.Config }

// MaxDays exposes the configured limit for the generator's availability filter
func (r *MaxConsecutiveWorkDays) MaxDays() int { return r.Config.MaxDays }

func (r *MaxConsecutiveWorkDays) Evaluate(ctx *Context) []model.Violation {
	return checkConsecutiveWorkRuns(ctx, r.base, r.Config.MaxDays)
}

// checkConsecutiveWorkRuns is shared with the advisory recommended_work_days
// rule, which has identical mechanics at info severity
func checkConsecutiveWorkRuns(ctx *Context, b base, maxDays int) []model.Violation {
	var violations []model.Violation

	days := ctx.DaysInMonth()
	for _, emp := range ctx.Employees {
		if !b.inScope(emp) {
			continue
		}

		run := 0
		for day := 1; day <= days; day++ {
			if !ctx.IsWorkingOn(emp.ID, day) {
				run = 0
				continue
			}
			run++
			if run == maxDays+1 {
				// Report once per run, on the first day past the limit
				v := b.violation(fmt.Sprintf(
					"%s works more than %d consecutive days", emp.Name, maxDays))
				v.EmployeeID = emp.ID
				v.Date = model.DateKey(model.DateOf(day, ctx.Month, ctx.Year))
				v.Metadata = map[string]any{"max_days": maxDays}
				violations = append(violations, v)
			}
		}
	}

	return violations
}

// MaxConsecutiveDaysOffConfig limits uninterrupted runs of non-working days
type MaxConsecutiveDaysOffConfig struct {
	MaxDays int `json:"max_days" validate:"min=0"`
}

// MaxConsecutiveDaysOff checks that no employee is away from work for more
// than MaxDays days in a row. Days without any entry count as off.
type MaxConsecutiveDaysOff struct {
	base
	Config MaxConsecutiveDaysOffConfig
}

func (r *MaxConsecutiveDaysOff) config() any { return &r.Config }

func (r *MaxConsecutiveDaysOff) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	days := ctx.DaysInMonth()
	for _, emp := range ctx.Employees {
		if !r.inScope(emp) {
			continue
		}

		run := 0
		for day := 1; day <= days; day++ {
			if ctx.IsWorkingOn(emp.ID, day) {
				run = 0
				continue
			}
			run++
			if run == r.Config.MaxDays+1 {
				v := r.violation(fmt.Sprintf(
					"%s is off more than %d consecutive days", emp.Name, r.Config.MaxDays))
				v.EmployeeID = emp.ID
				v.Date = model.DateKey(model.DateOf(day, ctx.Month, ctx.Year))
				v.Metadata = map[string]any{"max_days": r.Config.MaxDays}
				violations = append(violations, v)
			}
		}
	}

	return violations
}

// RecommendedWorkDaysConfig mirrors the consecutive-work-day limit
type RecommendedWorkDaysConfig struct {
	MaxDays int `json:"max_days" validate:"min=0"`
}

// RecommendedWorkDays is the advisory variant of MaxConsecutiveWorkDays.
// It defaults to info severity so it nudges the scorer without ever
// flipping a schedule to invalid.
type RecommendedWorkDays struct {
	base
	Config RecommendedWorkDaysConfig
}

func (r *RecommendedWorkDays) config() any { return &r.Config }

func (r *RecommendedWorkDays) Evaluate(ctx *Context) []model.Violation {
	return checkConsecutiveWorkRuns(ctx, r.base, r.Config.MaxDays)
}
