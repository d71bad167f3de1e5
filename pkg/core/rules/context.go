package rules

import (
	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// Context is the read-only snapshot a rule evaluates against: the full
// schedule for one month plus the catalogs it references. Build it once
// per evaluation pass with NewContext; the lookup indexes it carries make
// repeated per-day and per-employee scans cheap.
type Context struct {
	Schedule       []model.ScheduleEntry
	Employees      []model.Employee
	Month          int
	Year           int
	DayOffRequests []model.DayOffRequest

	shifts     map[string]model.ShiftType
	byDay      map[int][]model.ScheduleEntry
	byEmployee map[string]map[int]model.ScheduleEntry
	employees  map[string]model.Employee
}

// NewContext indexes a schedule snapshot for rule evaluation
func NewContext(
	schedule []model.ScheduleEntry,
	employees []model.Employee,
	shifts []model.ShiftType,
	month, year int,
	dayOffRequests []model.DayOffRequest,
) *Context {
	ctx := &Context{
		Schedule:       schedule,
		Employees:      employees,
		Month:          month,
		Year:           year,
		DayOffRequests: dayOffRequests,
		shifts:         make(map[string]model.ShiftType, len(shifts)),
		byDay:          make(map[int][]model.ScheduleEntry),
		byEmployee:     make(map[string]map[int]model.ScheduleEntry, len(employees)),
		employees:      make(map[string]model.Employee, len(employees)),
	}

	for _, s := range shifts {
		ctx.shifts[s.ID] = s
	}
	for _, e := range employees {
		ctx.employees[e.ID] = e
	}
	for _, entry := range schedule {
		if entry.Month != month || entry.Year != year {
			continue
		}
		ctx.byDay[entry.Day] = append(ctx.byDay[entry.Day], entry)
		perDay, ok := ctx.byEmployee[entry.EmployeeID]
		if !ok {
			perDay = make(map[int]model.ScheduleEntry)
			ctx.byEmployee[entry.EmployeeID] = perDay
		}
		perDay[entry.Day] = entry
	}

	return ctx
}

// DaysInMonth returns the day count of the context's month
func (c *Context) DaysInMonth() int {
	return model.DaysInMonth(c.Month, c.Year)
}

// Shift looks up a shift type from the catalog
func (c *Context) Shift(id string) (model.ShiftType, bool) {
	s, ok := c.shifts[id]
	return s, ok
}

// Employee looks up an employee by id
func (c *Context) Employee(id string) (model.Employee, bool) {
	e, ok := c.employees[id]
	return e, ok
}

// EntriesOn returns all entries for one day of the month
func (c *Context) EntriesOn(day int) []model.ScheduleEntry {
	return c.byDay[day]
}

// EntryFor returns the single entry for an employee on a day, if any
func (c *Context) EntryFor(employeeID string, day int) (model.ScheduleEntry, bool) {
	e, ok := c.byEmployee[employeeID][day]
	return e, ok
}

// IsWorkingEntry reports whether an entry assigns a working shift
func (c *Context) IsWorkingEntry(entry model.ScheduleEntry) bool {
	shift, ok := c.shifts[entry.ShiftID]
	return ok && shift.IsWorking()
}

// WorkingEntriesOn returns the entries on a day that assign working shifts
func (c *Context) WorkingEntriesOn(day int) []model.ScheduleEntry {
	var working []model.ScheduleEntry
	for _, entry := range c.byDay[day] {
		if c.IsWorkingEntry(entry) {
			working = append(working, entry)
		}
	}
	return working
}

// HasEntriesOn reports whether any entry exists for the day. Per-day
// staffing minimums skip days with no entries at all so that partially
// built schedules (scored during generation) are not penalised for days
// not yet reached.
func (c *Context) HasEntriesOn(day int) bool {
	return len(c.byDay[day]) > 0
}

// IsWorkingOn reports whether the employee has a working entry on the day
func (c *Context) IsWorkingOn(employeeID string, day int) bool {
	entry, ok := c.EntryFor(employeeID, day)
	return ok && c.IsWorkingEntry(entry)
}
