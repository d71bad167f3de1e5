package rules

import (
	"fmt"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// ManagerRequirementsConfig sets a per-day floor of working managers
type ManagerRequirementsConfig struct {
	MinManagersPerDay int `json:"min_managers_per_day" validate:"min=0"`
}

// ManagerRequirements checks that every scheduled day has at least the
// configured number of managers working. Days with no entries are skipped.
type ManagerRequirements struct {
	base
	Config ManagerRequirementsConfig
}

func (r *ManagerRequirements) config() any { return &r.Config }

func (r *ManagerRequirements) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		if !ctx.HasEntriesOn(day) {
			continue
		}
		managers := workingManagers(ctx, day)
		if managers < r.Config.MinManagersPerDay {
			v := r.violation(fmt.Sprintf(
				"%d of %d required managers working", managers, r.Config.MinManagersPerDay))
			v.Date = model.DateKey(model.DateOf(day, ctx.Month, ctx.Year))
			v.Metadata = map[string]any{
				"managers":     managers,
				"min_managers": r.Config.MinManagersPerDay,
			}
			violations = append(violations, v)
		}
	}

	return violations
}

// MaxHoursWithoutManagersConfig bounds the shift length tolerated on days
// with no manager present. The default of 0 flags every working shift on
// an unsupervised day.
type MaxHoursWithoutManagersConfig struct {
	MaxHours float64 `json:"max_hours" validate:"min=0"`
}

// MaxHoursWithoutManagers flags working shifts on days where no manager
// is assigned, surfacing unsupervised shifts one by one
type MaxHoursWithoutManagers struct {
	base
	Config MaxHoursWithoutManagersConfig
}

func (r *MaxHoursWithoutManagers) config() any { return &r.Config }

func (r *MaxHoursWithoutManagers) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		if !ctx.HasEntriesOn(day) || workingManagers(ctx, day) > 0 {
			continue
		}
		for _, entry := range ctx.WorkingEntriesOn(day) {
			shift, ok := ctx.Shift(entry.ShiftID)
			if !ok || shift.Hours <= r.Config.MaxHours {
				continue
			}
			emp, _ := ctx.Employee(entry.EmployeeID)
			v := r.violation(fmt.Sprintf(
				"%s works a %.1fh shift with no manager on duty", emp.Name, shift.Hours))
			v.EmployeeID = entry.EmployeeID
			v.Date = model.DateKey(model.DateOf(day, ctx.Month, ctx.Year))
			v.Metadata = map[string]any{
				"shift_id": entry.ShiftID,
				"hours":    shift.Hours,
			}
			violations = append(violations, v)
		}
	}

	return violations
}

// workingManagers counts managers with a working entry on the day
func workingManagers(ctx *Context, day int) int {
	count := 0
	for _, entry := range ctx.WorkingEntriesOn(day) {
		if emp, ok := ctx.Employee(entry.EmployeeID); ok && emp.IsManager() {
			count++
		}
	}
	return count
}
