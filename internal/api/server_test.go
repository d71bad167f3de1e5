package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/rotaplan/shift-scheduler/internal/config"
	"github.com/rotaplan/shift-scheduler/pkg/core/model"
)

type stubStore struct {
	employees []model.Employee
	shifts    []model.ShiftType
	rules     []model.RuleRecord
	schedule  []model.ScheduleEntry
	persisted []model.ScheduleEntry
}

func (s *stubStore) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	return s.employees, nil
}

func (s *stubStore) ListShiftTypes(ctx context.Context) ([]model.ShiftType, error) {
	return s.shifts, nil
}

func (s *stubStore) ListEnabledRules(ctx context.Context) ([]model.RuleRecord, error) {
	return s.rules, nil
}

func (s *stubStore) ListApprovedDayOffRequests(ctx context.Context, month, year int) ([]model.DayOffRequest, error) {
	return nil, nil
}

func (s *stubStore) GetScheduleEntries(ctx context.Context, month, year int) ([]model.ScheduleEntry, error) {
	return s.schedule, nil
}

func (s *stubStore) ReplaceMonthSchedule(ctx context.Context, month, year int, entries []model.ScheduleEntry) error {
	s.persisted = entries
	return nil
}

func newStubStore() *stubStore {
	return &stubStore{
		employees: []model.Employee{{ID: "e1", Name: "Alice"}},
		shifts: []model.ShiftType{
			{ID: "day", Name: "Day shift", Abbreviation: "D", Hours: 8},
			{ID: model.DayOffShiftID, Name: "Day off", Abbreviation: "X", Hours: 0},
		},
	}
}

func newTestServer(store *stubStore) *Server {
	return NewServer(store, &config.Config{}, zap.NewNop())
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(newStubStore())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHandleGenerate_Success(t *testing.T) {
	store := newStubStore()
	srv := newTestServer(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/generate",
		strings.NewReader(`{"month": 0, "year": 2025}`))
	srv.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp generateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 0, resp.Month)
	assert.Equal(t, 2025, resp.Year)
	assert.Equal(t, model.DaysInMonth(0, 2025), resp.EntryCount)
	assert.True(t, resp.Report.IsValid)
	assert.Len(t, store.persisted, resp.EntryCount)
}

func TestHandleGenerate_InvalidMonth(t *testing.T) {
	srv := newTestServer(newStubStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/generate",
		strings.NewReader(`{"month": 12, "year": 2025}`))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleGenerate_MissingDayOffShift(t *testing.T) {
	store := newStubStore()
	store.shifts = []model.ShiftType{{ID: "day", Hours: 8}}
	srv := newTestServer(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/generate",
		strings.NewReader(`{"month": 0, "year": 2025}`))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "day-off")
}

func TestHandleGenerate_MalformedBody(t *testing.T) {
	srv := newTestServer(newStubStore())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/generate",
		strings.NewReader(`{"month":`))
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleValidate_ReportsViolations(t *testing.T) {
	store := newStubStore()
	store.rules = []model.RuleRecord{{
		ID:       "r1",
		RuleType: "min_employees_per_shift",
		Enabled:  true,
		Config:   json.RawMessage(`{"min_employees": 2}`),
		Severity: model.SeverityError,
	}}
	store.schedule = []model.ScheduleEntry{
		{EmployeeID: "e1", Day: 1, Month: 0, Year: 2025, ShiftID: "day"},
	}
	srv := newTestServer(store)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/schedule/validate",
		strings.NewReader(`{"month": 0, "year": 2025}`))
	srv.Handler().ServeHTTP(rec, req)

	// Violations are payload, not an HTTP error
	require.Equal(t, http.StatusOK, rec.Code)

	var report struct {
		IsValid    bool              `json:"isValid"`
		Violations []model.Violation `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.False(t, report.IsValid)
	assert.Len(t, report.Violations, 1)
}

func TestHandleGetSchedule(t *testing.T) {
	store := newStubStore()
	store.schedule = []model.ScheduleEntry{
		{ID: "s1", EmployeeID: "e1", Day: 1, Month: 0, Year: 2025, ShiftID: "day"},
	}
	srv := newTestServer(store)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule/2025/0", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var entries []model.ScheduleEntry
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "e1", entries[0].EmployeeID)
}

func TestHandleGetSchedule_BadMonth(t *testing.T) {
	srv := newTestServer(newStubStore())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/schedule/2025/12", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
