// Package hrapi is the HTTP client for the remote HR API: identity,
// authentication, evaluation records and reference data. It classifies
// upstream failures into the console's error taxonomy.
package hrapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/evalia-hr/evalia-console/internal/evaluation"
	"github.com/evalia-hr/evalia-console/internal/platform/httpx"
)

// Client talks to the HR API over HTTP with bearer authentication.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient constructs a Client. A zero timeout falls back to 15s.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Login exchanges email/password for credentials. 401/403 map to
// ErrUnauthorized, 5xx to ErrServiceUnavailable.
func (c *Client) Login(ctx context.Context, email, password string) (Credentials, error) {
	payload, err := json.Marshal(map[string]string{"email": email, "password": password})
	if err != nil {
		return Credentials{}, err
	}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", bytes.NewReader(payload), &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Me validates a bearer token against the identity endpoint and returns the
// current user.
func (c *Client) Me(ctx context.Context, token string) (User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/auth/me", token, nil, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

// Logout asks the HR API to invalidate the token. Callers treat failures as
// best-effort.
func (c *Client) Logout(ctx context.Context, token string) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", token, nil, nil)
}

// ListEvaluations returns the full evaluation record set.
func (c *Client) ListEvaluations(ctx context.Context, token string) ([]evaluation.Record, error) {
	var records []evaluation.Record
	if err := c.do(ctx, http.MethodGet, "/evaluations", token, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListEvaluationsByPeriod returns the period-scoped record set.
func (c *Client) ListEvaluationsByPeriod(ctx context.Context, token string, periodID int64) ([]evaluation.Record, error) {
	var records []evaluation.Record
	path := "/periods/" + strconv.FormatInt(periodID, 10) + "/evaluations"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ListEvaluationsByEmployee returns the records where the employee is the
// evaluated party.
func (c *Client) ListEvaluationsByEmployee(ctx context.Context, token string, employeeID int64) ([]evaluation.Record, error) {
	var records []evaluation.Record
	path := "/employees/" + strconv.FormatInt(employeeID, 10) + "/evaluations"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// ScoreHistory returns an employee's weighted scores ordered most-recent-first.
func (c *Client) ScoreHistory(ctx context.Context, token string, employeeID int64) ([]float64, error) {
	var history []float64
	path := "/employees/" + strconv.FormatInt(employeeID, 10) + "/score-history"
	if err := c.do(ctx, http.MethodGet, path, token, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// OrgScoreHistory returns the organization-wide average weighted scores
// ordered most-recent-first.
func (c *Client) OrgScoreHistory(ctx context.Context, token string) ([]float64, error) {
	var history []float64
	if err := c.do(ctx, http.MethodGet, "/score-history", token, nil, &history); err != nil {
		return nil, err
	}
	return history, nil
}

// ListPeriods returns the evaluation periods.
func (c *Client) ListPeriods(ctx context.Context, token string) ([]Period, error) {
	var periods []Period
	if err := c.do(ctx, http.MethodGet, "/periods", token, nil, &periods); err != nil {
		return nil, err
	}
	return periods, nil
}

// ListEmployees returns the employee directory.
func (c *Client) ListEmployees(ctx context.Context, token string) ([]Employee, error) {
	var employees []Employee
	if err := c.do(ctx, http.MethodGet, "/employees", token, nil, &employees); err != nil {
		return nil, err
	}
	return employees, nil
}

// ListDepartments returns the organizational units.
func (c *Client) ListDepartments(ctx context.Context, token string) ([]Department, error) {
	var departments []Department
	if err := c.do(ctx, http.MethodGet, "/departments", token, nil, &departments); err != nil {
		return nil, err
	}
	return departments, nil
}

// DepartmentSummaries returns backend-computed per-department aggregates.
func (c *Client) DepartmentSummaries(ctx context.Context, token string) ([]DepartmentSummary, error) {
	var summaries []DepartmentSummary
	if err := c.do(ctx, http.MethodGet, "/departments/summary", token, nil, &summaries); err != nil {
		return nil, err
	}
	return summaries, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body io.Reader, dest any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("hrapi: %s %s: %w", method, path, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if c.logger != nil {
		c.logger.Debug("hr api call",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
			slog.Duration("elapsed", time.Since(start)))
	}

	if err := classifyStatus(resp.StatusCode); err != nil {
		return fmt.Errorf("hrapi: %s %s: %w", method, path, err)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("hrapi: decode %s %s: %w", method, path, err)
	}
	return nil
}

// classifyStatus folds upstream status codes into the error taxonomy.
func classifyStatus(code int) error {
	switch {
	case code < 400:
		return nil
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return httpx.ErrUnauthorized
	case code == http.StatusNotFound:
		return httpx.ErrNotFound
	case code >= 500:
		return httpx.ErrServiceUnavailable
	default:
		return fmt.Errorf("unexpected status %d", code)
	}
}
