package services

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

func TestValidateSchedule_FlagsStoredViolations(t *testing.T) {
	store := newFakeStore()
	store.rules = []model.RuleRecord{{
		ID:       "r1",
		RuleType: "min_employees_per_shift",
		Enabled:  true,
		Priority: 1,
		Config:   json.RawMessage(`{"min_employees": 2}`),
		Severity: model.SeverityError,
	}}
	store.schedule = []model.ScheduleEntry{
		{EmployeeID: "e1", Day: 1, Month: 0, Year: 2025, ShiftID: "day"},
		{EmployeeID: "e2", Day: 1, Month: 0, Year: 2025, ShiftID: model.DayOffShiftID},
	}

	report, err := ValidateSchedule(context.Background(), store, zap.NewNop(), 0, 2025)
	require.NoError(t, err)

	assert.False(t, report.IsValid)
	require.Len(t, report.Violations, 1)
	assert.Equal(t, "min_employees_per_shift", report.Violations[0].Type)
}

func TestValidateSchedule_EmptyScheduleIsValid(t *testing.T) {
	store := newFakeStore()
	store.rules = []model.RuleRecord{{
		ID:       "r1",
		RuleType: "min_employees_per_shift",
		Enabled:  true,
		Priority: 1,
		Config:   json.RawMessage(`{"min_employees": 2}`),
		Severity: model.SeverityError,
	}}

	report, err := ValidateSchedule(context.Background(), store, zap.NewNop(), 0, 2025)
	require.NoError(t, err)

	assert.True(t, report.IsValid)
	assert.Empty(t, report.Violations)
}

func TestValidateSchedule_RejectsInvalidMonth(t *testing.T) {
	_, err := ValidateSchedule(context.Background(), newFakeStore(), zap.NewNop(), 12, 2025)
	assert.ErrorIs(t, err, ErrInvalidMonth)
}

func TestValidateSchedule_SkipsMalformedRules(t *testing.T) {
	store := newFakeStore()
	store.rules = []model.RuleRecord{{
		ID:       "r1",
		RuleType: "min_employees_per_shift",
		Enabled:  true,
		Config:   json.RawMessage(`{"min_employees": "two"}`),
	}}
	store.schedule = []model.ScheduleEntry{
		{EmployeeID: "e1", Day: 1, Month: 0, Year: 2025, ShiftID: "day"},
	}

	report, err := ValidateSchedule(context.Background(), store, zap.NewNop(), 0, 2025)
	require.NoError(t, err)

	assert.True(t, report.IsValid)
	assert.Empty(t, report.Violations)
}
