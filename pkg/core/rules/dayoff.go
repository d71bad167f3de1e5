package rules

import (
	"fmt"
	"time"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// EmployeeDayOffConfig pins a single employee/date pair as off
type EmployeeDayOffConfig struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	Date       string `json:"date" validate:"required,datetime=2006-01-02"`
}

// EmployeeDayOff checks that the configured employee has no working
// assignment on the configured date. No entry at all is fine.
type EmployeeDayOff struct {
	base
	Config EmployeeDayOffConfig
}

func (r *EmployeeDayOff) config() any { return &r.Config }

func (r *EmployeeDayOff) Evaluate(ctx *Context) []model.Violation {
	date, err := time.Parse("2006-01-02", r.Config.Date)
	if err != nil {
		return nil
	}
	if int(date.Month())-1 != ctx.Month || date.Year() != ctx.Year {
		return nil
	}

	if !ctx.IsWorkingOn(r.Config.EmployeeID, date.Day()) {
		return nil
	}

	emp, _ := ctx.Employee(r.Config.EmployeeID)
	v := r.violation(fmt.Sprintf("%s is scheduled to work on a mandated day off", emp.Name))
	v.EmployeeID = r.Config.EmployeeID
	v.Date = r.Config.Date
	return []model.Violation{v}
}

// ApprovedDayOffRequestsConfig has no settings; the rule reads the
// approved requests from the evaluation context
type ApprovedDayOffRequestsConfig struct{}

// ApprovedDayOffRequests checks that every approved day-off request in the
// context month resulted in a day-off entry, not a working one
type ApprovedDayOffRequests struct {
	base
	Config ApprovedDayOffRequestsConfig
}

func (r *ApprovedDayOffRequests) config() any { return &r.Config }

func (r *ApprovedDayOffRequests) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for _, req := range ctx.DayOffRequests {
		if int(req.Date.Month())-1 != ctx.Month || req.Date.Year() != ctx.Year {
			continue
		}
		if emp, ok := ctx.Employee(req.EmployeeID); !ok || !r.inScope(emp) {
			continue
		}
		if !ctx.IsWorkingOn(req.EmployeeID, req.Date.Day()) {
			continue
		}

		emp, _ := ctx.Employee(req.EmployeeID)
		v := r.violation(fmt.Sprintf(
			"%s is scheduled to work despite an approved day-off request", emp.Name))
		v.EmployeeID = req.EmployeeID
		v.Date = model.DateKey(req.Date)
		violations = append(violations, v)
	}

	return violations
}
