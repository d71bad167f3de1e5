package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

func TestManagerRequirements_ManagerPresent(t *testing.T) {
	loaded := mustLoad(t, record(TypeManagerRequirements, 1,
		ManagerRequirementsConfig{MinManagersPerDay: 1}))

	// Alice (e1) is the manager
	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, "day"),
		entry("e2", 1, "evening"),
	})

	assert.Empty(t, loaded[0].Evaluate(ctx))
}

func TestManagerRequirements_NoManagerWorking(t *testing.T) {
	loaded := mustLoad(t, record(TypeManagerRequirements, 1,
		ManagerRequirementsConfig{MinManagersPerDay: 1}))

	// The manager has the day off
	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, model.DayOffShiftID),
		entry("e2", 1, "day"),
	})

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 1)
	assert.Equal(t, "2025-01-01", violations[0].Date)
}

func TestMaxHoursWithoutManagers_FlagsEveryWorkingShift(t *testing.T) {
	loaded := mustLoad(t, record(TypeMaxHoursNoManagers, 1,
		MaxHoursWithoutManagersConfig{}))

	// No manager on day 1: both working shifts are flagged individually
	ctx := testContext([]model.ScheduleEntry{
		entry("e2", 1, "day"),
		entry("e3", 1, "evening"),
	})

	violations := loaded[0].Evaluate(ctx)
	require.Len(t, violations, 2)
}

func TestMaxHoursWithoutManagers_QuietWhenManagerOnDuty(t *testing.T) {
	loaded := mustLoad(t, record(TypeMaxHoursNoManagers, 1,
		MaxHoursWithoutManagersConfig{}))

	ctx := testContext([]model.ScheduleEntry{
		entry("e1", 1, "day"),
		entry("e2", 1, "evening"),
	})

	assert.Empty(t, loaded[0].Evaluate(ctx))
}
