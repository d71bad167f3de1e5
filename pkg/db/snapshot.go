package db

import (
	"context"
	"fmt"
	"time"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// DayOffStatusApproved marks requests that flow into the core as hard
// constraints; pending or rejected requests never reach it
const DayOffStatusApproved = "approved"

// ListEmployees loads all employees with their roles
func (db *DB) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT e.id, e.name, e.exclude_from_hours, r.id, r.name, r.permissions
		FROM employees e
		LEFT JOIN roles r ON r.id = e.role_id
		ORDER BY e.name, e.id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	var employees []model.Employee
	for rows.Next() {
		var emp model.Employee
		var roleID, roleName *string
		var permissions []string
		if err := rows.Scan(&emp.ID, &emp.Name, &emp.ExcludeFromHours,
			&roleID, &roleName, &permissions); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		if roleID != nil {
			emp.Role = &model.Role{ID: *roleID, Name: *roleName, Permissions: permissions}
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read employees: %w", err)
	}
	return employees, nil
}

// ListShiftTypes loads the shift catalog
func (db *DB) ListShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, name, abbreviation, color, hours, start_time, end_time, is_default
		FROM shift_types
		ORDER BY is_default DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query shift types: %w", err)
	}
	defer rows.Close()

	var shifts []model.ShiftType
	for rows.Next() {
		var s model.ShiftType
		var start, end *string
		if err := rows.Scan(&s.ID, &s.Name, &s.Abbreviation, &s.Color,
			&s.Hours, &start, &end, &s.IsDefault); err != nil {
			return nil, fmt.Errorf("failed to scan shift type: %w", err)
		}
		if start != nil {
			s.StartTime = *start
		}
		if end != nil {
			s.EndTime = *end
		}
		shifts = append(shifts, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shift types: %w", err)
	}
	return shifts, nil
}

// ListEnabledRules loads enabled validation rule records ordered by priority
func (db *DB) ListEnabledRules(ctx context.Context) ([]model.RuleRecord, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, rule_type, enabled, priority, config,
		       applies_to_roles, applies_to_employees, severity, message
		FROM validation_rules
		WHERE enabled
		ORDER BY priority, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query validation rules: %w", err)
	}
	defer rows.Close()

	var records []model.RuleRecord
	for rows.Next() {
		var rec model.RuleRecord
		if err := rows.Scan(&rec.ID, &rec.RuleType, &rec.Enabled, &rec.Priority,
			&rec.Config, &rec.AppliesToRoles, &rec.AppliesToEmployees,
			&rec.Severity, &rec.Message); err != nil {
			return nil, fmt.Errorf("failed to scan validation rule: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read validation rules: %w", err)
	}
	return records, nil
}

// ListApprovedDayOffRequests loads approved requests falling in the given
// 0-based month
func (db *DB) ListApprovedDayOffRequests(ctx context.Context, month, year int) ([]model.DayOffRequest, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT employee_id, date
		FROM day_off_requests
		WHERE status = $1
		  AND EXTRACT(MONTH FROM date) = $2
		  AND EXTRACT(YEAR FROM date) = $3
		ORDER BY date, employee_id`,
		DayOffStatusApproved, month+1, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query day-off requests: %w", err)
	}
	defer rows.Close()

	var requests []model.DayOffRequest
	for rows.Next() {
		var req model.DayOffRequest
		var date time.Time
		if err := rows.Scan(&req.EmployeeID, &date); err != nil {
			return nil, fmt.Errorf("failed to scan day-off request: %w", err)
		}
		req.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read day-off requests: %w", err)
	}
	return requests, nil
}
