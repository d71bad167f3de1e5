package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

func TestMinEmployeesPerShift_SkipsEmptyDays(t *testing.T) {
	loaded := mustLoad(t, record(TypeMinEmployeesPerShift, 1,
		MinEmployeesPerShiftConfig{MinEmployees: 2}))

	// Only day 1 is scheduled; the rest of the month must not be flagged
	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, "day"),
		entry("e2", 1, "day"),
	})

	assert.Empty(t, loaded[0].Evaluate(ctx))
}

func TestMinEmployeesPerShift_Underfilled(t *testing.T) {
	loaded := mustLoad(t, record(TypeMinEmployeesPerShift, 1,
		MinEmployeesPerShiftConfig{MinEmployees: 2}))

	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, "day"),
		entry("e2", 1, model.DayOffShiftID),
	})

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 1)
	assert.Equal(t, "2025-01-01", violations[0].Date)
}

func TestMinEmployeesPerShift_ScopedShiftIDs(t *testing.T) {
	loaded := mustLoad(t, record(TypeMinEmployeesPerShift, 1,
		MinEmployeesPerShiftConfig{MinEmployees: 1, ShiftIDs: []string{"evening"}}))

	// Two on the day shift, nobody on the scoped evening shift
	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, "day"),
		entry("e2", 1, "day"),
	})

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 1)
}

func TestMaxEmployeesPerShift_Overfilled(t *testing.T) {
	loaded := mustLoad(t, record(TypeMaxEmployeesPerShift, 1,
		MaxEmployeesPerShiftConfig{MaxEmployees: 2}))

	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, "day"),
		entry("e2", 1, "day"),
		entry("e3", 1, "evening"),
	})

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 1)
	assert.Equal(t, "2025-01-01", violations[0].Date)
}

func TestMaxEmployeesPerShiftType_PerShiftLimit(t *testing.T) {
	loaded := mustLoad(t, record(TypeMaxEmployeesPerType, 1,
		MaxEmployeesPerShiftTypeConfig{Limits: map[string]int{"day": 1, "evening": 5}}))

	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, "day"),
		entry("e2", 1, "day"),
		entry("e3", 1, "evening"),
	})

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 1)
	assert.Equal(t, "day", violations[0].Metadata["shift_id"])
}

func TestShiftTypeLimitPerDay_GroupsByAbbreviation(t *testing.T) {
	loaded := mustLoad(t, record(TypeShiftTypeLimitPerDay, 1,
		ShiftTypeLimitPerDayConfig{Limits: map[string]int{"D": 1}}))

	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, "day"),
		entry("e2", 1, "day"),
	})

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 1)
	assert.Equal(t, "D", violations[0].Metadata["abbreviation"])
}
