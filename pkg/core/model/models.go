package model

import (
	"encoding/json"
	"time"
)

// DayOffShiftID is the id of the sentinel non-working shift. The shift
// catalog must always contain a shift with this id and zero hours;
// generation refuses to run without it.
const DayOffShiftID = "day-off"

// Permission flags carried by a role. An employee whose role holds either
// scheduling permission counts as a manager for coverage rules.
const (
	PermManageSchedule     = "manage_schedule"
	PermApprovePreferences = "approve_preferences"
)

// Role is a named capability set assigned to an employee
type Role struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Permissions []string `json:"permissions"`
}

// HasPermission returns true if the role carries the given permission flag
func (r Role) HasPermission(perm string) bool {
	for _, p := range r.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// Employee represents a schedulable employee
type Employee struct {
	ID   string
	Name string

	// Role is optional; employees without a role have no capability flags
	Role *Role

	// ExcludeFromHours omits the employee from hour-quota rules
	ExcludeFromHours bool
}

// IsManager returns true if the employee's role carries a scheduling permission
func (e Employee) IsManager() bool {
	if e.Role == nil {
		return false
	}
	return e.Role.HasPermission(PermManageSchedule) || e.Role.HasPermission(PermApprovePreferences)
}

// ShiftType is one entry of the shift catalog
type ShiftType struct {
	ID           string
	Name         string
	Abbreviation string
	Color        string

	// Hours is the shift length; 0 marks the day-off sentinel
	Hours float64

	// StartTime and EndTime are optional "HH:MM" times of day
	StartTime string
	EndTime   string

	IsDefault bool
}

// IsWorking returns true for shifts that count as work
func (s ShiftType) IsWorking() bool {
	return s.Hours > 0
}

// ScheduleEntry assigns one employee to one shift on one calendar day.
// Month is 0-based (January = 0) to match the external contract.
// At most one entry may exist per (EmployeeID, Day, Month, Year).
type ScheduleEntry struct {
	ID         string `json:"id,omitempty"`
	EmployeeID string `json:"employeeId"`
	Day        int    `json:"day"`
	Month      int    `json:"month"`
	Year       int    `json:"year"`
	ShiftID    string `json:"shiftId"`
}

// Date returns the entry's calendar date at midnight UTC
func (e ScheduleEntry) Date() time.Time {
	return time.Date(e.Year, time.Month(e.Month+1), e.Day, 0, 0, 0, 0, time.UTC)
}

// DayOffRequest is an approved request for a day off. Only approved
// requests reach the core; they act as hard day-off pre-assignments.
type DayOffRequest struct {
	EmployeeID string
	Date       time.Time
}

// Severity classifies a violation
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Violation is one rule breach found in a schedule. Violations are normal
// result data, never errors.
type Violation struct {
	Type       string         `json:"type"`
	Severity   Severity       `json:"severity"`
	Message    string         `json:"message"`
	EmployeeID string         `json:"employeeId,omitempty"`
	Date       string         `json:"date,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

// RuleRecord is the stored form of a validation rule, as loaded from the
// persistence collaborator. Config is decoded into a typed structure per
// rule kind at load time.
type RuleRecord struct {
	ID                 string
	RuleType           string
	Enabled            bool
	Priority           int
	Config             json.RawMessage
	AppliesToRoles     []string
	AppliesToEmployees []string
	Severity           Severity
	Message            string
}

// DaysInMonth returns the number of days in the given 0-based month
func DaysInMonth(month, year int) int {
	return time.Date(year, time.Month(month+1)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DateOf returns midnight UTC for a day of a 0-based month
func DateOf(day, month, year int) time.Time {
	return time.Date(year, time.Month(month+1), day, 0, 0, 0, 0, time.UTC)
}

// IsWeekend returns true for Saturday and Sunday
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// DateKey formats a date as YYYY-MM-DD, the wire format for violations
func DateKey(t time.Time) string {
	return t.Format("2006-01-02")
}
