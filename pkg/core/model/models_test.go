package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(0, 2025))
	assert.Equal(t, 28, DaysInMonth(1, 2025))
	assert.Equal(t, 29, DaysInMonth(1, 2024)) // leap year
	assert.Equal(t, 31, DaysInMonth(11, 2025))
}

func TestIsWeekend(t *testing.T) {
	assert.True(t, IsWeekend(DateOf(4, 0, 2025)))  // Saturday
	assert.True(t, IsWeekend(DateOf(5, 0, 2025)))  // Sunday
	assert.False(t, IsWeekend(DateOf(6, 0, 2025))) // Monday
}

func TestScheduleEntryDate(t *testing.T) {
	e := ScheduleEntry{Day: 15, Month: 0, Year: 2025}
	assert.Equal(t, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), e.Date())
}

func TestEmployeeIsManager(t *testing.T) {
	scheduler := Employee{Role: &Role{Permissions: []string{PermManageSchedule}}}
	approver := Employee{Role: &Role{Permissions: []string{PermApprovePreferences}}}
	staff := Employee{Role: &Role{Permissions: []string{"view_schedule"}}}
	roleless := Employee{}

	assert.True(t, scheduler.IsManager())
	assert.True(t, approver.IsManager())
	assert.False(t, staff.IsManager())
	assert.False(t, roleless.IsManager())
}

func TestShiftTypeIsWorking(t *testing.T) {
	assert.True(t, ShiftType{ID: "day", Hours: 8}.IsWorking())
	assert.False(t, ShiftType{ID: DayOffShiftID, Hours: 0}.IsWorking())
}
