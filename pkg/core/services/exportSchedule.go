package services

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/internal/config"
	"github.com/rotaplan/shift-scheduler/pkg/core/model"
	"github.com/rotaplan/shift-scheduler/pkg/export"
)

// ExportScheduleStore defines the database operations needed to export a
// stored month
type ExportScheduleStore interface {
	ListEmployees(ctx context.Context) ([]model.Employee, error)
	ListShiftTypes(ctx context.Context) ([]model.ShiftType, error)
	GetScheduleEntries(ctx context.Context, month, year int) ([]model.ScheduleEntry, error)
}

// ExportSchedule renders the stored schedule for one 0-based month as a
// PDF in the configured export directory and returns the file path
func ExportSchedule(
	ctx context.Context,
	store ExportScheduleStore,
	cfg *config.Config,
	logger *zap.Logger,
	month, year int,
) (string, error) {
	if month < 0 || month > 11 {
		return "", fmt.Errorf("%w, got %d", ErrInvalidMonth, month)
	}

	employees, err := store.ListEmployees(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load employees: %w", err)
	}
	shifts, err := store.ListShiftTypes(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load shift types: %w", err)
	}
	schedule, err := store.GetScheduleEntries(ctx, month, year)
	if err != nil {
		return "", fmt.Errorf("failed to load schedule: %w", err)
	}
	if len(schedule) == 0 {
		return "", fmt.Errorf("no schedule stored for %s %d", time.Month(month+1), year)
	}

	filePath := filepath.Join(cfg.ExportDir,
		fmt.Sprintf("schedule-%d-%02d.pdf", year, month+1))
	if err := export.WriteMonthPDF(filePath, month, year, employees, shifts, schedule); err != nil {
		return "", err
	}

	logger.Info("Schedule exported",
		zap.Int("month", month),
		zap.Int("year", year),
		zap.String("path", filePath))

	return filePath, nil
}
