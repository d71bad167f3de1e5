package rules

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// Rule type identifiers as stored in validation rule records
const (
	TypeMaxConsecutiveShifts   = "max_consecutive_shifts"
	TypeMaxConsecutiveWorkDays = "max_consecutive_work_days"
	TypeMaxConsecutiveDaysOff  = "max_consecutive_days_off"
	TypeMinEmployeesPerShift   = "min_employees_per_shift"
	TypeMaxEmployeesPerShift   = "max_employees_per_shift"
	TypeMaxEmployeesPerType    = "max_employees_per_shift_type"
	TypeShiftTypeLimitPerDay   = "shift_type_limit_per_day"
	TypeManagerRequirements    = "manager_requirements"
	TypeMaxTotalHours          = "max_total_hours"
	TypeEmployeeHoursLimit     = "employee_hours_limit"
	TypeMaxHoursNoManagers     = "max_hours_without_managers"
	TypeRecommendedWorkDays    = "recommended_work_days"
	TypeRequiredWorkDays       = "required_work_days"
	TypeCoverageByTime         = "coverage_by_time"
	TypeCoverageByDay          = "coverage_by_day"
	TypeRequiredCoverage       = "required_coverage"
	TypeEmployeeDayOff         = "employee_day_off"
	TypeApprovedDayOffRequests = "approved_day_off_requests"
)

// Rule is one validation rule with its typed config already decoded.
// Evaluate is pure and must not mutate the context; callers run it through
// Evaluate (the package-level wrapper) so a faulty rule degrades to zero
// violations instead of aborting the run.
type Rule interface {
	ID() string
	Type() string
	Priority() int
	Severity() model.Severity
	Evaluate(ctx *Context) []model.Violation
}

// base carries the fields shared by every rule kind
type base struct {
	id                 string
	ruleType           string
	priority           int
	severity           model.Severity
	message            string
	appliesToRoles     []string
	appliesToEmployees []string
}

func (b base) ID() string               { return b.id }
func (b base) Type() string             { return b.ruleType }
func (b base) Priority() int            { return b.priority }
func (b base) Severity() model.Severity { return b.severity }

// inScope reports whether the rule applies to the given employee.
// A rule with no scoping applies to everyone.
func (b base) inScope(e model.Employee) bool {
	if len(b.appliesToRoles) == 0 && len(b.appliesToEmployees) == 0 {
		return true
	}
	for _, id := range b.appliesToEmployees {
		if id == e.ID {
			return true
		}
	}
	if e.Role != nil {
		for _, roleID := range b.appliesToRoles {
			if roleID == e.Role.ID {
				return true
			}
		}
	}
	return false
}

// violation builds a violation for this rule, honoring a custom message
func (b base) violation(msg string) model.Violation {
	if b.message != "" {
		msg = b.message
	}
	return model.Violation{
		Type:     b.ruleType,
		Severity: b.severity,
		Message:  msg,
	}
}

var validate = validator.New()

// Load decodes stored rule records into typed rules, sorted by ascending
// priority. Disabled records are skipped. Records with an unknown ruleType
// or a config that fails to decode or validate are dropped (fail-open) with
// a log line; a malformed rule must never abort generation or validation.
func Load(records []model.RuleRecord, logger *zap.Logger) []Rule {
	rules := make([]Rule, 0, len(records))

	for _, rec := range records {
		if !rec.Enabled {
			continue
		}

		rule, err := build(rec)
		if err != nil {
			logger.Warn("Dropping unusable validation rule",
				zap.String("rule_id", rec.ID),
				zap.String("rule_type", rec.RuleType),
				zap.Error(err))
			continue
		}
		if rule == nil {
			logger.Warn("Dropping validation rule with unknown type",
				zap.String("rule_id", rec.ID),
				zap.String("rule_type", rec.RuleType))
			continue
		}

		rules = append(rules, rule)
	}

	sort.SliceStable(rules, func(i, j int) bool {
		return rules[i].Priority() < rules[j].Priority()
	})

	return rules
}

// build constructs the typed rule for one record. Returns (nil, nil) for
// unknown rule types so the caller can log them distinctly.
func build(rec model.RuleRecord) (Rule, error) {
	b := base{
		id:                 rec.ID,
		ruleType:           rec.RuleType,
		priority:           rec.Priority,
		severity:           rec.Severity,
		message:            rec.Message,
		appliesToRoles:     rec.AppliesToRoles,
		appliesToEmployees: rec.AppliesToEmployees,
	}
	if b.severity == "" {
		b.severity = model.SeverityWarning
	}

	switch rec.RuleType {
	case TypeMaxConsecutiveShifts, TypeMaxConsecutiveWorkDays:
		return decodeInto(rec, &MaxConsecutiveWorkDays{base: b})
	case TypeMaxConsecutiveDaysOff:
		return decodeInto(rec, &MaxConsecutiveDaysOff{base: b})
	case TypeMinEmployeesPerShift:
		return decodeInto(rec, &MinEmployeesPerShift{base: b})
	case TypeMaxEmployeesPerShift:
		return decodeInto(rec, &MaxEmployeesPerShift{base: b})
	case TypeMaxEmployeesPerType:
		return decodeInto(rec, &MaxEmployeesPerShiftType{base: b})
	case TypeShiftTypeLimitPerDay:
		return decodeInto(rec, &ShiftTypeLimitPerDay{base: b})
	case TypeManagerRequirements:
		return decodeInto(rec, &ManagerRequirements{base: b})
	case TypeMaxTotalHours:
		return decodeInto(rec, &MaxTotalHours{base: b})
	case TypeEmployeeHoursLimit:
		return decodeInto(rec, &EmployeeHoursLimit{base: b})
	case TypeMaxHoursNoManagers:
		return decodeInto(rec, &MaxHoursWithoutManagers{base: b})
	case TypeRecommendedWorkDays:
		if rec.Severity == "" {
			b.severity = model.SeverityInfo
		}
		return decodeInto(rec, &RecommendedWorkDays{base: b})
	case TypeRequiredWorkDays:
		return decodeInto(rec, &RequiredWorkDays{base: b})
	case TypeCoverageByTime:
		return decodeInto(rec, &CoverageByTime{base: b})
	case TypeCoverageByDay:
		return decodeInto(rec, &CoverageByDay{base: b})
	case TypeRequiredCoverage:
		return decodeInto(rec, &RequiredCoverage{base: b})
	case TypeEmployeeDayOff:
		return decodeInto(rec, &EmployeeDayOff{base: b})
	case TypeApprovedDayOffRequests:
		return decodeInto(rec, &ApprovedDayOffRequests{base: b})
	}

	return nil, nil
}

// decodeInto unmarshals the record's config into the rule's Config field
// and runs struct validation on the result
func decodeInto[R Rule](rec model.RuleRecord, rule R) (Rule, error) {
	if len(rec.Config) > 0 {
		if err := json.Unmarshal(rec.Config, configOf(rule)); err != nil {
			return nil, fmt.Errorf("failed to decode config: %w", err)
		}
	}
	if err := validate.Struct(rule); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return rule, nil
}

// configurable is implemented by every rule kind to expose its config
// struct for decoding
type configurable interface {
	config() any
}

func configOf(r Rule) any {
	return r.(configurable).config()
}

// Evaluate runs one rule against the context, recovering from panics so a
// faulty rule contributes zero violations instead of taking down the caller
func Evaluate(rule Rule, ctx *Context, logger *zap.Logger) (violations []model.Violation) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Rule evaluation panicked, treating as no violations",
				zap.String("rule_id", rule.ID()),
				zap.String("rule_type", rule.Type()),
				zap.Any("panic", r))
			violations = nil
		}
	}()
	return rule.Evaluate(ctx)
}
