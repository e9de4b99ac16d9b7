package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"leavedesk/internal/platform/config"
	"leavedesk/internal/transport/http/middleware"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	cfg := config.Config{
		Addr:          ":0",
		DatabaseURL:   dsn,
		Environment:   "test",
		MigrationsDir: "../../../migrations",
		RunMigrations: true,
		RunSeed:       true,
		MaxBodyBytes:  1 << 20,
	}
	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(app.Close)

	if _, err := app.DB.Exec(context.Background(), "DELETE FROM leaves"); err != nil {
		t.Fatalf("clean leaves table: %v", err)
	}
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func doJSON(t *testing.T, app *App, method, path, employeeID string, payload any) (int, envelope) {
	t.Helper()
	var body bytes.Buffer
	if payload != nil {
		if err := json.NewEncoder(&body).Encode(payload); err != nil {
			t.Fatalf("encode payload: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &body)
	if employeeID != "" {
		req.Header.Set(middleware.HeaderEmployeeID, employeeID)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") == "application/json" {
		if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return rec.Code, env
}

func applyLeave(t *testing.T, app *App, employeeID, category, start, end string) int64 {
	t.Helper()
	status, env := doJSON(t, app, http.MethodPost, "/api/v1/leave/requests", employeeID, map[string]any{
		"category":    category,
		"startDate":   start,
		"endDate":     end,
		"description": "integration test leave",
	})
	if status != http.StatusCreated {
		t.Fatalf("apply: status = %d, error = %+v", status, env.Error)
	}
	var result struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &result); err != nil {
		t.Fatalf("apply: decode result: %v", err)
	}
	return result.ID
}

func TestLeaveWorkflow(t *testing.T) {
	app := newTestApp(t)

	id := applyLeave(t, app, "SL-001", "Annual", "2030-06-03", "2030-06-07")

	// Double-approve: the second must hit the status guard.
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/approve", id), "FM-001", nil)
	if status != http.StatusOK {
		t.Fatalf("approve: status = %d", status)
	}
	status, env := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/approve", id), "FM-001", nil)
	if status != http.StatusConflict || env.Error == nil || env.Error.Code != "invalid_transition" {
		t.Fatalf("second approve: status = %d, error = %+v", status, env.Error)
	}

	// Recall well before the leave starts: full duration remains, allowed.
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/recall?today=2030-05-01", id), "FM-001", nil)
	if status != http.StatusOK {
		t.Fatalf("recall: status = %d", status)
	}

	// Recalled is terminal.
	status, env = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/recall?today=2030-05-01", id), "FM-001", nil)
	if status != http.StatusConflict || env.Error == nil || env.Error.Code != "invalid_transition" {
		t.Fatalf("second recall: status = %d, error = %+v", status, env.Error)
	}
}

func TestDeclineRequiresReason(t *testing.T) {
	app := newTestApp(t)
	id := applyLeave(t, app, "SL-001", "Sick", "2030-07-01", "2030-07-02")

	status, env := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/decline", id), "FM-001", map[string]any{"reason": "   "})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "empty_reason" {
		t.Fatalf("blank decline: status = %d, error = %+v", status, env.Error)
	}

	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/decline", id), "FM-001", map[string]any{"reason": "coverage gap"})
	if status != http.StatusOK {
		t.Fatalf("decline: status = %d", status)
	}
}

func TestApplyRejectsOverBalance(t *testing.T) {
	app := newTestApp(t)

	// Annual allotment is 21 seeded days. 16 approved days leave 5.
	id := applyLeave(t, app, "SL-002", "Annual", "2030-03-04", "2030-03-19")
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/approve", id), "FM-001", nil)
	if status != http.StatusOK {
		t.Fatalf("approve: status = %d", status)
	}

	// Exactly five more days lands remaining on zero and passes.
	applyLeave(t, app, "SL-002", "Annual", "2030-04-01", "2030-04-05")

	// Pending requests do not consume balance, so six days overdraws by one.
	status, env := doJSON(t, app, http.MethodPost, "/api/v1/leave/requests", "SL-002", map[string]any{
		"category":  "Annual",
		"startDate": "2030-05-01",
		"endDate":   "2030-05-06",
	})
	if status != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != "rejected_balance" {
		t.Fatalf("over-balance apply: status = %d, error = %+v", status, env.Error)
	}
	var details struct {
		Remaining int `json:"remaining"`
	}
	if err := json.Unmarshal(env.Error.Details, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details.Remaining != -1 {
		t.Fatalf("remaining = %d, want -1", details.Remaining)
	}
}

func TestUnpaidLeaveSkipsBalanceCheck(t *testing.T) {
	app := newTestApp(t)
	// A year of unpaid leave dwarfs every pool and must still be accepted.
	applyLeave(t, app, "FM-002", "Unpaid", "2030-01-01", "2030-12-31")
}

func TestApplyRejectsReversedRange(t *testing.T) {
	app := newTestApp(t)
	status, env := doJSON(t, app, http.MethodPost, "/api/v1/leave/requests", "SL-001", map[string]any{
		"category":  "Annual",
		"startDate": "2030-06-10",
		"endDate":   "2030-06-01",
	})
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "invalid_range" {
		t.Fatalf("reversed range: status = %d, error = %+v", status, env.Error)
	}
}

func TestRecallWindowTooShort(t *testing.T) {
	app := newTestApp(t)
	id := applyLeave(t, app, "SL-001", "Annual", "2030-06-01", "2030-06-10")
	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/approve", id), "FM-001", nil)
	if status != http.StatusOK {
		t.Fatalf("approve: status = %d", status)
	}

	// Three days left (08, 09, 10) is inside the protected window.
	status, env := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/recall?today=2030-06-08", id), "FM-001", nil)
	if status != http.StatusUnprocessableEntity || env.Error == nil || env.Error.Code != "recall_window_too_short" {
		t.Fatalf("short-window recall: status = %d, error = %+v", status, env.Error)
	}
	var details struct {
		DaysLeft int `json:"daysLeft"`
	}
	if err := json.Unmarshal(env.Error.Details, &details); err != nil {
		t.Fatalf("decode details: %v", err)
	}
	if details.DaysLeft != 3 {
		t.Fatalf("daysLeft = %d, want 3", details.DaysLeft)
	}

	// One day earlier there are four days left and the recall goes through.
	status, _ = doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/recall?today=2030-06-07", id), "FM-001", nil)
	if status != http.StatusOK {
		t.Fatalf("recall at four days left: status = %d", status)
	}
}

func TestWithdrawPendingRequest(t *testing.T) {
	app := newTestApp(t)
	id := applyLeave(t, app, "SL-001", "Study", "2030-09-02", "2030-09-03")

	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/withdraw", id), "SL-001", map[string]any{"reason": "plans changed"})
	if status != http.StatusOK {
		t.Fatalf("withdraw: status = %d", status)
	}

	// Withdrawn is terminal; approval must refuse.
	status, env := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/approve", id), "FM-001", nil)
	if status != http.StatusConflict || env.Error == nil || env.Error.Code != "invalid_transition" {
		t.Fatalf("approve withdrawn: status = %d, error = %+v", status, env.Error)
	}
}

func TestHistoryNewestFirst(t *testing.T) {
	app := newTestApp(t)
	first := applyLeave(t, app, "FM-001", "Annual", "2030-02-04", "2030-02-05")
	second := applyLeave(t, app, "FM-001", "Sick", "2030-03-04", "2030-03-05")

	status, env := doJSON(t, app, http.MethodGet, "/api/v1/leave/history", "FM-001", nil)
	if status != http.StatusOK {
		t.Fatalf("history: status = %d", status)
	}
	var history []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &history); err != nil {
		t.Fatalf("decode history: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("got %d history rows, want 2", len(history))
	}
	if history[0].ID != second || history[1].ID != first {
		t.Fatalf("history not newest-first: %+v", history)
	}
}

func TestTeamViewFilters(t *testing.T) {
	app := newTestApp(t)
	annual := applyLeave(t, app, "SL-001", "Annual", "2030-06-03", "2030-06-04")
	applyLeave(t, app, "SL-002", "Sick", "2030-06-03", "2030-06-04")

	status, _ := doJSON(t, app, http.MethodPost, fmt.Sprintf("/api/v1/leave/requests/%d/approve", annual), "FM-001", nil)
	if status != http.StatusOK {
		t.Fatalf("approve: status = %d", status)
	}

	// Filters combine with AND: Approved Annual for SL-001 matches one row.
	status, env := doJSON(t, app, http.MethodGet, "/api/v1/leave/team?status=Approved&category=Annual&employee=SL-001", "", nil)
	if status != http.StatusOK {
		t.Fatalf("team view: status = %d", status)
	}
	var rows []struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(env.Data, &rows); err != nil {
		t.Fatalf("decode team view: %v", err)
	}
	if len(rows) != 1 || rows[0].ID != annual {
		t.Fatalf("team view rows = %+v", rows)
	}

	// Disjoint filters match nothing.
	status, env = doJSON(t, app, http.MethodGet, "/api/v1/leave/team?status=Approved&employee=SL-002", "", nil)
	if status != http.StatusOK {
		t.Fatalf("team view: status = %d", status)
	}
	rows = nil
	if len(env.Data) > 0 && string(env.Data) != "null" {
		if err := json.Unmarshal(env.Data, &rows); err != nil {
			t.Fatalf("decode team view: %v", err)
		}
	}
	if len(rows) != 0 {
		t.Fatalf("disjoint filters returned %d rows", len(rows))
	}

	status, env = doJSON(t, app, http.MethodGet, "/api/v1/leave/team?status=Done", "", nil)
	if status != http.StatusBadRequest || env.Error == nil || env.Error.Code != "validation_error" {
		t.Fatalf("bad status filter: status = %d, error = %+v", status, env.Error)
	}
}

func TestIdentityRequiredForMutations(t *testing.T) {
	app := newTestApp(t)
	status, env := doJSON(t, app, http.MethodPost, "/api/v1/leave/requests", "", map[string]any{
		"category":  "Annual",
		"startDate": "2030-06-01",
		"endDate":   "2030-06-02",
	})
	if status != http.StatusUnauthorized || env.Error == nil || env.Error.Code != "identity_required" {
		t.Fatalf("anonymous apply: status = %d, error = %+v", status, env.Error)
	}
}

func TestHealthz(t *testing.T) {
	app := newTestApp(t)
	status, env := doJSON(t, app, http.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("healthz: status = %d, success = %v", status, env.Success)
	}
}
