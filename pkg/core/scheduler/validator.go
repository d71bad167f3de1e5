package scheduler

import (
	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
	"github.com/rotaplan/shift-scheduler/pkg/core/rules"
)

// Report is the outcome of validating a schedule. Violations of every
// severity share the one slice; IsValid is false only when at least one
// violation carries error severity.
type Report struct {
	IsValid    bool              `json:"isValid"`
	Violations []model.Violation `json:"violations"`
}

// ValidateSchedule runs every enabled rule, in ascending priority order,
// against a complete schedule snapshot. Rules degrade to zero violations
// on internal faults, so validation always completes.
func ValidateSchedule(
	schedule []model.ScheduleEntry,
	employees []model.Employee,
	shifts []model.ShiftType,
	month, year int,
	approvedDayOffs []model.DayOffRequest,
	ruleset []rules.Rule,
	logger *zap.Logger,
) Report {
	ctx := rules.NewContext(schedule, employees, shifts, month, year, approvedDayOffs)

	report := Report{IsValid: true, Violations: []model.Violation{}}
	for _, rule := range ruleset {
		for _, v := range rules.Evaluate(rule, ctx, logger) {
			if v.Severity == model.SeverityError {
				report.IsValid = false
			}
			report.Violations = append(report.Violations, v)
		}
	}

	logger.Debug("Schedule validated",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.Int("rules", len(ruleset)),
		zap.Int("violations", len(report.Violations)),
		zap.Bool("is_valid", report.IsValid))

	return report
}
