package scheduler

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
	"github.com/rotaplan/shift-scheduler/pkg/core/rules"
)

// ErrDayOffShiftMissing is returned when the shift catalog lacks the
// day-off sentinel; generation cannot run without it
var ErrDayOffShiftMissing = fmt.Errorf("shift catalog has no %q shift with zero hours", model.DayOffShiftID)

// GenerateSchedule builds a complete schedule for one month: a greedy,
// day-by-day search with no backtracking across days. For each day it
// generates candidate assignments, scores them against the enabled rules
// and keeps the winner; approved day-off requests are hard constraints
// seeded before any day is processed.
//
// Month is 0-based (January = 0). The returned entries cover every
// employee on every day of the month.
func GenerateSchedule(
	month, year int,
	employees []model.Employee,
	shifts []model.ShiftType,
	ruleset []rules.Rule,
	approvedDayOffs []model.DayOffRequest,
	logger *zap.Logger,
) ([]model.ScheduleEntry, error) {
	if err := checkDayOffShift(shifts); err != nil {
		return nil, err
	}

	var workingShifts []model.ShiftType
	for _, s := range shifts {
		if s.IsWorking() {
			workingShifts = append(workingShifts, s)
		}
	}

	days := model.DaysInMonth(month, year)
	limit := consecutiveLimit(ruleset)

	logger.Debug("Starting schedule generation",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("days", days),
		zap.Int("employees", len(employees)),
		zap.Int("working_shifts", len(workingShifts)),
		zap.Int("rules", len(ruleset)),
		zap.Int("consecutive_limit", limit))

	// Seed the accumulator with approved day-offs for the target month
	var accumulated []model.ScheduleEntry
	dayOffByEmployee := make(map[string]map[int]bool)
	for _, req := range approvedDayOffs {
		if int(req.Date.Month())-1 != month || req.Date.Year() != year {
			continue
		}
		day := req.Date.Day()
		if dayOffByEmployee[req.EmployeeID] == nil {
			dayOffByEmployee[req.EmployeeID] = make(map[int]bool)
		}
		if dayOffByEmployee[req.EmployeeID][day] {
			continue
		}
		dayOffByEmployee[req.EmployeeID][day] = true
		accumulated = append(accumulated, model.ScheduleEntry{
			EmployeeID: req.EmployeeID,
			Day:        day,
			Month:      month,
			Year:       year,
			ShiftID:    model.DayOffShiftID,
		})
	}

	for day := 1; day <= days; day++ {
		ctx := rules.NewContext(accumulated, employees, shifts, month, year, approvedDayOffs)

		// Employees with an approved day off today are not available
		var available []model.Employee
		for _, emp := range employees {
			if dayOffByEmployee[emp.ID][day] {
				continue
			}
			available = append(available, emp)
		}

		// Filter out employees at their consecutive-work-day limit; if that
		// empties the pool, fall back to the unfiltered set rather than
		// leaving the day unstaffed. A zero limit means nobody may ever
		// work, so the fallback does not apply and the whole day is off.
		var rested []model.Employee
		for _, emp := range available {
			if consecutiveWorkDays(ctx, emp.ID, day) < limit {
				rested = append(rested, emp)
			}
		}
		pool := rested
		if len(pool) == 0 && limit > 0 {
			pool = available
		}

		candidates := DayVariants(day, month, year, pool, workingShifts, ruleset, ctx)
		winner, ok := pickBest(candidates, scoreInput{
			day:         day,
			month:       month,
			year:        year,
			accumulated: accumulated,
			employees:   employees,
			shifts:      shifts,
			ruleset:     ruleset,
			dayOffs:     approvedDayOffs,
			logger:      logger,
		})
		if ok {
			accumulated = append(accumulated, winner.Entries(day, month, year)...)
			logger.Debug("Day scheduled",
				zap.Int("day", day),
				zap.String("strategy", winner.Strategy.String()),
				zap.Int("candidates", len(candidates)))
		}

		// Weekend auto-fill: everyone still without an entry gets a day off
		if model.IsWeekend(model.DateOf(day, month, year)) {
			accumulated = fillDayOff(accumulated, employees, day, month, year)
		}
	}

	// Close any remaining gaps (employees filtered out at their limit on
	// weekdays, or left unassigned by a minimal-staffing winner) so every
	// employee ends up with exactly one entry per day
	for day := 1; day <= days; day++ {
		accumulated = fillDayOff(accumulated, employees, day, month, year)
	}

	logger.Info("Schedule generated",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("entries", len(accumulated)))

	return accumulated, nil
}

// fillDayOff assigns the day-off shift to any employee without an entry on
// the given day
func fillDayOff(
	accumulated []model.ScheduleEntry,
	employees []model.Employee,
	day, month, year int,
) []model.ScheduleEntry {
	assigned := make(map[string]bool)
	for _, entry := range accumulated {
		if entry.Day == day && entry.Month == month && entry.Year == year {
			assigned[entry.EmployeeID] = true
		}
	}
	for _, emp := range employees {
		if assigned[emp.ID] {
			continue
		}
		accumulated = append(accumulated, model.ScheduleEntry{
			EmployeeID: emp.ID,
			Day:        day,
			Month:      month,
			Year:       year,
			ShiftID:    model.DayOffShiftID,
		})
	}
	return accumulated
}

// checkDayOffShift enforces the hard precondition that the catalog carries
// the zero-hour day-off sentinel
func checkDayOffShift(shifts []model.ShiftType) error {
	for _, s := range shifts {
		if s.ID == model.DayOffShiftID && s.Hours == 0 {
			return nil
		}
	}
	return ErrDayOffShiftMissing
}
