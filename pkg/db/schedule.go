package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

// GetScheduleEntries loads the stored schedule for one 0-based month
func (db *DB) GetScheduleEntries(ctx context.Context, month, year int) ([]model.ScheduleEntry, error) {
	rows, err := db.pool.Query(ctx, `
		SELECT id, employee_id, day, month, year, shift_id
		FROM schedule_entries
		WHERE month = $1 AND year = $2
		ORDER BY day, employee_id`,
		month, year)
	if err != nil {
		return nil, fmt.Errorf("failed to query schedule entries: %w", err)
	}
	defer rows.Close()

	var entries []model.ScheduleEntry
	for rows.Next() {
		var entry model.ScheduleEntry
		if err := rows.Scan(&entry.ID, &entry.EmployeeID, &entry.Day,
			&entry.Month, &entry.Year, &entry.ShiftID); err != nil {
			return nil, fmt.Errorf("failed to scan schedule entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read schedule entries: %w", err)
	}
	return entries, nil
}

// ReplaceMonthSchedule atomically swaps the stored schedule for one month:
// existing rows are deleted and the new entries inserted in a single
// transaction, so a failure never leaves a half-written month. Entries
// without an id are assigned one on the way in.
func (db *DB) ReplaceMonthSchedule(ctx context.Context, month, year int, entries []model.ScheduleEntry) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM schedule_entries WHERE month = $1 AND year = $2`,
		month, year); err != nil {
		return fmt.Errorf("failed to delete existing schedule: %w", err)
	}

	batch := &pgx.Batch{}
	for _, entry := range entries {
		id := entry.ID
		if id == "" {
			id = uuid.NewString()
		}
		batch.Queue(`
			INSERT INTO schedule_entries (id, employee_id, day, month, year, shift_id)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			id, entry.EmployeeID, entry.Day, entry.Month, entry.Year, entry.ShiftID)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("failed to insert schedule entries: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit schedule replace: %w", err)
	}
	return nil
}
