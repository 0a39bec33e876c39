package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/jobboardhq/jobboard-backend/internal/dto"
	"github.com/jobboardhq/jobboard-backend/internal/middleware"
	"github.com/jobboardhq/jobboard-backend/internal/models"
	"github.com/jobboardhq/jobboard-backend/internal/services"
)

// Shared in-memory fakes for the store, gateway and audit interfaces.

type auditEntry struct {
	action     string
	entityType string
	entityID   *uuid.UUID
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []auditEntry
}

func (f *fakeAudit) Record(_ *uuid.UUID, action, entityType string, entityID *uuid.UUID, _, _ string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries = append(f.entries, auditEntry{action: action, entityType: entityType, entityID: entityID})
}

func (f *fakeAudit) has(action string) bool {
	_, ok := f.byAction(action)
	return ok
}

// byAction returns the single entry recorded for action; ok is false when the
// action was never recorded or was recorded more than once.
func (f *fakeAudit) byAction(action string) (auditEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var found auditEntry
	n := 0
	for _, e := range f.entries {
		if e.action == action {
			found = e
			n++
		}
	}
	return found, n == 1
}

func (f *fakeAudit) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.entries)
}

type fakeGateway struct {
	mu           sync.Mutex
	extractCalls int
	matchCalls   int

	extractResult services.ExtractResult
	matchFn       func(resumeText, jobDescription string) services.MatchResult
}

func (f *fakeGateway) ExtractProfile(_ context.Context, _ []byte, _ string) services.ExtractResult {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.extractCalls++
	return f.extractResult
}

func (f *fakeGateway) ScoreMatch(_ context.Context, resumeText, jobDescription string) services.MatchResult {
	f.mu.Lock()
	f.matchCalls++
	f.mu.Unlock()
	if f.matchFn != nil {
		return f.matchFn(resumeText, jobDescription)
	}
	return services.MatchResult{MatchPercentage: 50, MissingSkills: []string{}, Reason: "default"}
}

func (f *fakeGateway) matched() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.matchCalls
}

type fakeCache struct {
	mu      sync.Mutex
	entries map[string]services.MatchResult
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]services.MatchResult{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (services.MatchResult, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result, ok := f.entries[key]
	return result, ok
}

func (f *fakeCache) Set(_ context.Context, key string, result services.MatchResult) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[key] = result
}

type fakeJobStore struct {
	jobs      []*models.Job
	saveCount int
}

func (f *fakeJobStore) List() ([]models.Job, error) {
	out := make([]models.Job, 0, len(f.jobs))
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeJobStore) Recent(limit int) ([]models.Job, error) {
	jobs, _ := f.List()
	if len(jobs) > limit {
		jobs = jobs[:limit]
	}
	return jobs, nil
}

func (f *fakeJobStore) ListByProvider(providerID uuid.UUID) ([]models.Job, error) {
	var out []models.Job
	for _, j := range f.jobs {
		if j.PostedBy == providerID {
			out = append(out, *j)
		}
	}
	return out, nil
}

func (f *fakeJobStore) Get(id uuid.UUID) (*models.Job, error) {
	for _, j := range f.jobs {
		if j.ID == id {
			dup := *j
			return &dup, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeJobStore) Create(job *models.Job) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func (f *fakeJobStore) Save(job *models.Job) error {
	f.saveCount++
	for i, j := range f.jobs {
		if j.ID == job.ID {
			f.jobs[i] = job
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeJobStore) Delete(job *models.Job) error {
	for i, j := range f.jobs {
		if j.ID == job.ID {
			f.jobs = append(f.jobs[:i], f.jobs[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserStore struct {
	users     []*models.User
	saveCount int
}

func (f *fakeUserStore) Get(id uuid.UUID) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			dup := *u
			return &dup, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserStore) List() ([]models.User, error) {
	out := make([]models.User, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeUserStore) Save(user *models.User) error {
	f.saveCount++
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users[i] = user
			return nil
		}
	}
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserStore) Delete(user *models.User) error {
	for i, u := range f.users {
		if u.ID == user.ID {
			f.users = append(f.users[:i], f.users[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeApplicationStore struct {
	apps      []*models.Application
	createErr error
	stats     *dto.StatsResponse
}

func (f *fakeApplicationStore) ListAll() ([]models.Application, error) {
	out := make([]models.Application, 0, len(f.apps))
	for _, a := range f.apps {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeApplicationStore) ListByUser(userID uuid.UUID) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.apps {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) ListForProvider(providerID uuid.UUID) ([]models.Application, error) {
	var out []models.Application
	for _, a := range f.apps {
		if a.Job != nil && a.Job.PostedBy == providerID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeApplicationStore) HasApplied(jobID, userID uuid.UUID) (bool, error) {
	for _, a := range f.apps {
		if a.JobID == jobID && a.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeApplicationStore) Create(app *models.Application) error {
	if f.createErr != nil {
		return f.createErr
	}
	if app.ID == uuid.Nil {
		app.ID = uuid.New()
	}
	f.apps = append(f.apps, app)
	return nil
}

func (f *fakeApplicationStore) Get(id uuid.UUID) (*models.Application, error) {
	for _, a := range f.apps {
		if a.ID == id {
			dup := *a
			return &dup, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeApplicationStore) Save(app *models.Application) error {
	for i, a := range f.apps {
		if a.ID == app.ID {
			f.apps[i] = app
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeApplicationStore) Stats() (*dto.StatsResponse, error) {
	return f.stats, nil
}

// asUser injects the acting user the way the JWT middleware chain would.
func asUser(user *models.User) fiber.Handler {
	return func(c *fiber.Ctx) error {
		middleware.SetCurrentUser(c, user)
		return c.Next()
	}
}

func jsonRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encoding request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (*http.Response, []byte) {
	t.Helper()

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading response body: %v", err)
	}
	resp.Body.Close()
	return resp, body
}

func decodeBody(t *testing.T, body []byte, dst any) {
	t.Helper()
	if err := json.Unmarshal(body, dst); err != nil {
		t.Fatalf("decoding response %s: %v", body, err)
	}
}
