package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/internal/config"
	"github.com/rotaplan/shift-scheduler/pkg/core/model"
	"github.com/rotaplan/shift-scheduler/pkg/core/rules"
	"github.com/rotaplan/shift-scheduler/pkg/core/scheduler"
)

// ErrInvalidMonth is returned when a caller passes a month outside 0-11
var ErrInvalidMonth = errors.New("month must be between 0 and 11")

// Priority assigned to rules synthesised from config coverage overrides.
// They sit below every stored rule so operator overrides never outrank
// the configured rule set.
const coverageOverridePriority = 1000

// GenerateScheduleStore defines the database operations needed to
// generate and persist a month's schedule
type GenerateScheduleStore interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListShiftTypes(ctx context.Context) ([]model.ShiftType, error)
	ListEnabledRules(ctx context.Context) ([]model.RuleRecord, error)
	ListApprovedDayOffRequests(ctx context.Context, month, year int) ([]model.DayOffRequest, error)
	ReplaceMonthSchedule(ctx context.Context, month, year int, entries []model.ScheduleEntry) error
}

// GenerateScheduleResult contains the generation outcome
type GenerateScheduleResult struct {
	RunID      string
	Month      int
	Year       int
	EntryCount int
	Entries    []model.ScheduleEntry
	Report     scheduler.Report
}

// GenerateSchedule loads the month's input snapshot, runs the core
// generator and replaces the stored schedule for the month. Month is
// 0-based. If dryRun is true the result is returned without persisting.
func GenerateSchedule(
	ctx context.Context,
	store GenerateScheduleStore,
	cfg *config.Config,
	logger *zap.Logger,
	month, year int,
	dryRun bool,
) (*GenerateScheduleResult, error) {
	if month < 0 || month > 11 {
		return nil, fmt.Errorf("%w, got %d", ErrInvalidMonth, month)
	}

	runID := uuid.NewString()
	logger.Info("Starting schedule generation",
		zap.String("run_id", runID),
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Bool("dry_run", dryRun))

	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load employees: %w", err)
	}
	shifts, err := store.ListShiftTypes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load shift types: %w", err)
	}
	records, err := store.ListEnabledRules(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load validation rules: %w", err)
	}
	dayOffs, err := store.ListApprovedDayOffRequests(ctx, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to load day-off requests: %w", err)
	}

	overrides, err := expandCoverageOverrides(cfg, month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to expand coverage overrides: %w", err)
	}
	records = append(records, overrides...)

	ruleset := rules.Load(records, logger)
	logger.Debug("Rules loaded",
		zap.Int("records", len(records)),
		zap.Int("usable", len(ruleset)))

	entries, err := scheduler.GenerateSchedule(month, year, employees, shifts, ruleset, dayOffs, logger)
	if err != nil {
		return nil, err
	}

	report := scheduler.ValidateSchedule(entries, employees, shifts, month, year, dayOffs, ruleset, logger)

	if !dryRun {
		if err := store.ReplaceMonthSchedule(ctx, month, year, entries); err != nil {
			return nil, fmt.Errorf("failed to persist schedule: %w", err)
		}
		logger.Info("Schedule persisted",
			zap.String("run_id", runID),
			zap.Int("entries", len(entries)))
	}

	return &GenerateScheduleResult{
		RunID:      runID,
		Month:      month,
		Year:       year,
		EntryCount: len(entries),
		Entries:    entries,
		Report:     report,
	}, nil
}

// expandCoverageOverrides turns each configured RRULE override into a
// required_coverage rule record covering its occurrences in the target month
func expandCoverageOverrides(cfg *config.Config, month, year int) ([]model.RuleRecord, error) {
	if cfg == nil || len(cfg.CoverageOverrides) == 0 {
		return nil, nil
	}

	monthStart := model.DateOf(1, month, year)
	monthEnd := model.DateOf(model.DaysInMonth(month, year), month, year)

	var records []model.RuleRecord
	for i, override := range cfg.CoverageOverrides {
		rule, err := rrule.StrToRRule(override.RRule)
		if err != nil {
			return nil, fmt.Errorf("invalid rrule in coverageOverrides[%d]: %w", i, err)
		}
		// Overrides are written without DTSTART; anchor them to the target
		// month so the same rule works for any month
		rule.DTStart(monthStart)

		var requirements []rules.CoverageRequirement
		for _, occurrence := range rule.Between(monthStart, monthEnd, true) {
			requirements = append(requirements, rules.CoverageRequirement{
				ShiftID:      override.ShiftID,
				Date:         model.DateKey(occurrence),
				MinEmployees: override.MinEmployees,
			})
		}
		if len(requirements) == 0 {
			continue
		}

		cfgJSON, err := json.Marshal(rules.RequiredCoverageConfig{Requirements: requirements})
		if err != nil {
			return nil, fmt.Errorf("failed to encode coverage override config: %w", err)
		}

		records = append(records, model.RuleRecord{
			ID:       uuid.NewString(),
			RuleType: rules.TypeRequiredCoverage,
			Enabled:  true,
			Priority: coverageOverridePriority + i,
			Config:   cfgJSON,
			Severity: model.SeverityWarning,
		})
	}

	return records, nil
}
