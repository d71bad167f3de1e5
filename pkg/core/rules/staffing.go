package rules

import (
	"fmt"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// MinEmployeesPerShiftConfig sets a per-day staffing floor. When ShiftIDs
// is set only those shifts count toward the floor.
type MinEmployeesPerShiftConfig struct {
	MinEmployees int      `json:"min_employees" validate:"min=0"`
	ShiftIDs     []string `json:"shift_ids,omitempty"`
}

// MinEmployeesPerShift checks that every scheduled day has at least
// MinEmployees working. Days with no entries at all are skipped.
type MinEmployeesPerShift struct {
	base
	Config MinEmployeesPerShiftConfig
}

func (r *MinEmployeesPerShift) config() any { return &r.Config }

// MinEmployees exposes the floor for the rule-aware variant strategy
func (r *MinEmployeesPerShift) MinEmployees() int { return r.Config.MinEmployees }

// ShiftIDs exposes the scoped shift ids for the variant post-adjustment
func (r *MinEmployeesPerShift) ShiftIDs() []string { return r.Config.ShiftIDs }

func (r *MinEmployeesPerShift) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		if !ctx.HasEntriesOn(day) {
			continue
		}
		count := r.countWorking(ctx, day)
		if count < r.Config.MinEmployees {
			v := r.violation(fmt.Sprintf(
				"only %d of %d required employees working", count, r.Config.MinEmployees))
			v.Date = model.DateKey(model.DateOf(day, ctx.Month, ctx.Year))
			v.Metadata = map[string]any{
				"working":       count,
				"min_employees": r.Config.MinEmployees,
			}
			violations = append(violations, v)
		}
	}

	return violations
}

func (r *MinEmployeesPerShift) countWorking(ctx *Context, day int) int {
	count := 0
	for _, entry := range ctx.WorkingEntriesOn(day) {
		if len(r.Config.ShiftIDs) > 0 && !containsString(r.Config.ShiftIDs, entry.ShiftID) {
			continue
		}
		count++
	}
	return count
}

// MaxEmployeesPerShiftConfig caps overall daily staffing
type MaxEmployeesPerShiftConfig struct {
	MaxEmployees int `json:"max_employees" validate:"min=0"`
}

// MaxEmployeesPerShift checks that no day has more than MaxEmployees working
type MaxEmployeesPerShift struct {
	base
	Config MaxEmployeesPerShiftConfig
}

func (r *MaxEmployeesPerShift) config() any { return &r.Config }

// MaxEmployees exposes the cap for the rule-aware variant strategy
func (r *MaxEmployeesPerShift) MaxEmployees() int { return r.Config.MaxEmployees }

func (r *MaxEmployeesPerShift) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		count := len(ctx.WorkingEntriesOn(day))
		if count > r.Config.MaxEmployees {
			v := r.violation(fmt.Sprintf(
				"%d employees working, maximum is %d", count, r.Config.MaxEmployees))
			v.Date = model.DateKey(model.DateOf(day, ctx.Month, ctx.Year))
			v.Metadata = map[string]any{
				"working":       count,
				"max_employees": r.Config.MaxEmployees,
			}
			violations = append(violations, v)
		}
	}

	return violations
}

// MaxEmployeesPerShiftTypeConfig caps staffing per specific shift id
type MaxEmployeesPerShiftTypeConfig struct {
	Limits map[string]int `json:"limits" validate:"required"`
}

// MaxEmployeesPerShiftType checks per-day, per-shift-id headcount caps
type MaxEmployeesPerShiftType struct {
	base
	Config MaxEmployeesPerShiftTypeConfig
}

func (r *MaxEmployeesPerShiftType) config() any { return &r.Config }

func (r *MaxEmployeesPerShiftType) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		counts := make(map[string]int)
		for _, entry := range ctx.WorkingEntriesOn(day) {
			counts[entry.ShiftID]++
		}
		for shiftID, limit := range r.Config.Limits {
			if counts[shiftID] > limit {
				v := r.violation(fmt.Sprintf(
					"shift %s has %d employees, limit is %d", shiftID, counts[shiftID], limit))
				v.Date = model.DateKey(model.DateOf(day, ctx.Month, ctx.Year))
				v.Metadata = map[string]any{
					"shift_id": shiftID,
					"assigned": counts[shiftID],
					"limit":    limit,
				}
				violations = append(violations, v)
			}
		}
	}

	return violations
}

// ShiftTypeLimitPerDayConfig caps staffing per shift abbreviation
type ShiftTypeLimitPerDayConfig struct {
	Limits map[string]int `json:"limits" validate:"required"`
}

// ShiftTypeLimitPerDay checks per-day headcount caps grouped by shift
// abbreviation rather than shift id
type ShiftTypeLimitPerDay struct {
	base
	Config ShiftTypeLimitPerDayConfig
}

func (r *ShiftTypeLimitPerDay) config() any { return &r.Config }

func (r *ShiftTypeLimitPerDay) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		counts := make(map[string]int)
		for _, entry := range ctx.EntriesOn(day) {
			shift, ok := ctx.Shift(entry.ShiftID)
			if !ok {
				continue
			}
			counts[shift.Abbreviation]++
		}
		for abbrev, limit := range r.Config.Limits {
			if counts[abbrev] > limit {
				v := r.violation(fmt.Sprintf(
					"shift type %s assigned %d times, limit is %d", abbrev, counts[abbrev], limit))
				v.Date = model.DateKey(model.DateOf(day, ctx.Month, ctx.Year))
				v.Metadata = map[string]any{
					"abbreviation": abbrev,
					"assigned":     counts[abbrev],
					"limit":        limit,
				}
				violations = append(violations, v)
			}
		}
	}

	return violations
}

func containsString(list []string, s string) bool {
	for _, candidate := range list {
		if candidate == s {
			return true
		}
	}
	return false
}
