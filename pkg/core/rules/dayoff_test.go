package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

func TestEmployeeDayOff_WorkingOnMandatedDayOff(t *testing.T) {
	loaded := mustLoad(t, record(TypeEmployeeDayOff, 1,
		EmployeeDayOffConfig{EmployeeID: "e2", Date: "2025-01-03"}))

	ctx := testContext([]model.ScheduleEntry{
		entry("e2", 3, "day"),
	})

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 1)
	assert.Equal(t, "e2", violations[0].EmployeeID)
	assert.Equal(t, "2025-01-03", violations[0].Date)
}

func TestEmployeeDayOff_NoEntryIsFine(t *testing.T) {
	loaded := mustLoad(t, record(TypeEmployeeDayOff, 1,
		EmployeeDayOffConfig{EmployeeID: "e2", Date: "2025-01-03"}))

	assert.Empty(t, loaded[0].Evaluate(testContext(nil)))
}

func TestApprovedDayOffRequests_OverriddenRequest(t *testing.T) {
	loaded := mustLoad(t, record(TypeApprovedDayOffRequests, 1,
		ApprovedDayOffRequestsConfig{}))

	requests := []model.DayOffRequest{
		{EmployeeID: "e1", Date: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)},
		{EmployeeID: "e2", Date: time.Date(2025, time.January, 6, 0, 0, 0, 0, time.UTC)},
	}
	schedule := []model.ScheduleEntry{
		entry("e1", 6, "day"),               // overrides the request
		entry("e2", 6, model.DayOffShiftID), // honors it
	}
	ctx := NewContext(schedule, testEmployees(), testShifts(), testMonth, testYear, requests)

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 1)
	assert.Equal(t, "e1", violations[0].EmployeeID)
	assert.Equal(t, "2025-01-06", violations[0].Date)
}

func TestApprovedDayOffRequests_IgnoresOtherMonths(t *testing.T) {
	loaded := mustLoad(t, record(TypeApprovedDayOffRequests, 1,
		ApprovedDayOffRequestsConfig{}))

	requests := []model.DayOffRequest{
		{EmployeeID: "e1", Date: time.Date(2025, time.February, 6, 0, 0, 0, 0, time.UTC)},
	}
	ctx := NewContext([]model.ScheduleEntry{entry("e1", 6, "day")},
		testEmployees(), testShifts(), testMonth, testYear, requests)

	assert.Empty(t, loaded[0].Evaluate(ctx))
}
