package rules

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// RequiredWorkDaysConfig lists the weekdays that must be staffed.
// Weekday values follow time.Weekday (0 = Sunday).
type RequiredWorkDaysConfig struct {
	Weekdays []int `json:"weekdays" validate:"required,dive,min=0,max=6"`
}

// RequiredWorkDays checks that every scheduled day falling on a configured
// weekday has at least one employee working
type RequiredWorkDays struct {
	base
	Config RequiredWorkDaysConfig
}

func (r *RequiredWorkDays) config() any { return &r.Config }

// AppliesTo reports whether the weekday is one of the required work days.
// The rule-aware variant strategy uses this for its priority bonus.
func (r *RequiredWorkDays) AppliesTo(weekday time.Weekday) bool {
	for _, wd := range r.Config.Weekdays {
		if time.Weekday(wd) == weekday {
			return true
		}
	}
	return false
}

func (r *RequiredWorkDays) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		date := model.DateOf(day, ctx.Month, ctx.Year)
		if !r.AppliesTo(date.Weekday()) || !ctx.HasEntriesOn(day) {
			continue
		}
		if len(ctx.WorkingEntriesOn(day)) == 0 {
			v := r.violation(fmt.Sprintf(
				"no employees working on required work day %s", date.Weekday()))
			v.Date = model.DateKey(date)
			violations = append(violations, v)
		}
	}

	return violations
}

// TimeRange is one time-of-day coverage window
type TimeRange struct {
	Start        string `json:"start" validate:"required"`
	End          string `json:"end" validate:"required"`
	MinEmployees int    `json:"min_employees" validate:"min=0"`
}

// CoverageByTimeConfig requires minimum staffing during time-of-day windows
type CoverageByTimeConfig struct {
	TimeRanges      []TimeRange `json:"time_ranges" validate:"required,dive"`
	IncludeWeekdays bool        `json:"include_weekdays"`
	IncludeWeekends bool        `json:"include_weekends"`
}

// CoverageByTime checks that enough employees are on shifts overlapping each
// configured window. Shifts without start/end times never overlap a window.
type CoverageByTime struct {
	base
	Config CoverageByTimeConfig
}

func (r *CoverageByTime) config() any { return &r.Config }

func (r *CoverageByTime) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		if !ctx.HasEntriesOn(day) {
			continue
		}
		date := model.DateOf(day, ctx.Month, ctx.Year)
		weekend := model.IsWeekend(date)
		if weekend && !r.Config.IncludeWeekends {
			continue
		}
		if !weekend && !r.Config.IncludeWeekdays {
			continue
		}

		for _, tr := range r.Config.TimeRanges {
			rangeStart, okStart := parseTimeOfDay(tr.Start)
			rangeEnd, okEnd := parseTimeOfDay(tr.End)
			if !okStart || !okEnd {
				continue
			}

			covering := 0
			for _, entry := range ctx.WorkingEntriesOn(day) {
				shift, ok := ctx.Shift(entry.ShiftID)
				if !ok {
					continue
				}
				if shiftOverlaps(shift, rangeStart, rangeEnd) {
					covering++
				}
			}

			if covering < tr.MinEmployees {
				v := r.violation(fmt.Sprintf(
					"%d of %d required employees cover %s-%s", covering, tr.MinEmployees, tr.Start, tr.End))
				v.Date = model.DateKey(date)
				v.Metadata = map[string]any{
					"start":         tr.Start,
					"end":           tr.End,
					"covering":      covering,
					"min_employees": tr.MinEmployees,
				}
				violations = append(violations, v)
			}
		}
	}

	return violations
}

// Day type discriminators for coverage_by_day
const (
	DayTypeSpecificDates = "specific_dates"
	DayTypeWeekdays      = "weekdays"
	DayTypeWeekends      = "weekends"
)

// CoverageByDayConfig requires minimum staffing on specific dates, all
// weekdays, or all weekends depending on DayType
type CoverageByDayConfig struct {
	DayType      string   `json:"day_type" validate:"required,oneof=specific_dates weekdays weekends"`
	Dates        []string `json:"dates,omitempty" validate:"dive,datetime=2006-01-02"`
	MinEmployees int      `json:"min_employees" validate:"min=0"`
}

// CoverageByDay checks a staffing floor restricted by day type
type CoverageByDay struct {
	base
	Config CoverageByDayConfig
}

func (r *CoverageByDay) config() any { return &r.Config }

// MinEmployees exposes the floor for the rule-aware variant strategy
func (r *CoverageByDay) MinEmployees() int { return r.Config.MinEmployees }

func (r *CoverageByDay) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for day := 1; day <= ctx.DaysInMonth(); day++ {
		if !ctx.HasEntriesOn(day) {
			continue
		}
		date := model.DateOf(day, ctx.Month, ctx.Year)
		if !r.covers(date) {
			continue
		}

		working := len(ctx.WorkingEntriesOn(day))
		if working < r.Config.MinEmployees {
			v := r.violation(fmt.Sprintf(
				"%d of %d required employees working", working, r.Config.MinEmployees))
			v.Date = model.DateKey(date)
			v.Metadata = map[string]any{
				"working":       working,
				"min_employees": r.Config.MinEmployees,
			}
			violations = append(violations, v)
		}
	}

	return violations
}

func (r *CoverageByDay) covers(date time.Time) bool {
	switch r.Config.DayType {
	case DayTypeWeekdays:
		return !model.IsWeekend(date)
	case DayTypeWeekends:
		return model.IsWeekend(date)
	case DayTypeSpecificDates:
		return containsString(r.Config.Dates, model.DateKey(date))
	}
	return false
}

// CoverageRequirement pins a minimum headcount for one shift on one date
type CoverageRequirement struct {
	ShiftID      string `json:"shift_id" validate:"required"`
	Date         string `json:"date" validate:"required,datetime=2006-01-02"`
	MinEmployees int    `json:"min_employees" validate:"min=0"`
}

// RequiredCoverageConfig lists per-shift, per-date coverage requirements
type RequiredCoverageConfig struct {
	Requirements []CoverageRequirement `json:"requirements" validate:"required,dive"`
}

// RequiredCoverage checks that each requirement's shift is staffed to its
// minimum on its date. Dates outside the context month are ignored.
type RequiredCoverage struct {
	base
	Config RequiredCoverageConfig
}

func (r *RequiredCoverage) config() any { return &r.Config }

func (r *RequiredCoverage) Evaluate(ctx *Context) []model.Violation {
	var violations []model.Violation

	for _, req := range r.Config.Requirements {
		date, err := time.Parse("2006-01-02", req.Date)
		if err != nil {
			continue
		}
		if int(date.Month())-1 != ctx.Month || date.Year() != ctx.Year {
			continue
		}
		day := date.Day()
		if !ctx.HasEntriesOn(day) {
			continue
		}

		assigned := 0
		for _, entry := range ctx.EntriesOn(day) {
			if entry.ShiftID == req.ShiftID {
				assigned++
			}
		}

		if assigned < req.MinEmployees {
			v := r.violation(fmt.Sprintf(
				"shift %s has %d of %d required employees on %s",
				req.ShiftID, assigned, req.MinEmployees, req.Date))
			v.Date = req.Date
			v.Metadata = map[string]any{
				"shift_id":      req.ShiftID,
				"assigned":      assigned,
				"min_employees": req.MinEmployees,
			}
			violations = append(violations, v)
		}
	}

	return violations
}

// parseTimeOfDay converts "HH:MM" to minutes since midnight
func parseTimeOfDay(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// shiftOverlaps reports whether a shift's time interval overlaps the
// [start, end) window, both in minutes since midnight
func shiftOverlaps(shift model.ShiftType, start, end int) bool {
	shiftStart, okStart := parseTimeOfDay(shift.StartTime)
	shiftEnd, okEnd := parseTimeOfDay(shift.EndTime)
	if !okStart || !okEnd {
		return false
	}
	if shiftEnd <= shiftStart {
		// Overnight shift: covers [start, midnight) and [midnight, end)
		return shiftStart < end || shiftEnd > start
	}
	return shiftStart < end && shiftEnd > start
}
