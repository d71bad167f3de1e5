package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
	"github.com/rotaplan/shift-scheduler/pkg/core/rules"
	"github.com/rotaplan/shift-scheduler/pkg/core/scheduler"
)

// ValidateScheduleStore defines the database operations needed to
// validate a stored month read-only
type ValidateScheduleStore interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListShiftTypes(ctx context.Context) ([]model.ShiftType, error)
	ListEnabledRules(ctx context.Context) ([]model.RuleRecord, error)
	ListApprovedDayOffRequests(ctx context.Context, month, year int) ([]model.DayOffRequest, error)
	GetScheduleEntries(ctx context.Context, month, year int) ([]model.ScheduleEntry, error)
}

// ValidateSchedule checks the stored schedule for one 0-based month
// against the enabled rules. Violations are data, not errors; an error
// here means the snapshot could not be loaded.
func ValidateSchedule(
	ctx context.Context,
	store ValidateScheduleStore,
	logger *zap.Logger,
	month, year int,
) (scheduler.Report, error) {
	if month < 0 || month > 11 {
		return scheduler.Report{}, fmt.Errorf("%w, got %d", ErrInvalidMonth, month)
	}

	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("failed to load employees: %w", err)
	}
	shifts, err := store.ListShiftTypes(ctx)
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("failed to load shift types: %w", err)
	}
	records, err := store.ListEnabledRules(ctx)
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("failed to load validation rules: %w", err)
	}
	dayOffs, err := store.ListApprovedDayOffRequests(ctx, month, year)
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("failed to load day-off requests: %w", err)
	}
	schedule, err := store.GetScheduleEntries(ctx, month, year)
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("failed to load schedule: %w", err)
	}

	ruleset := rules.Load(records, logger)
	return scheduler.ValidateSchedule(schedule, employees, shifts, month, year, dayOffs, ruleset, logger), nil
}
