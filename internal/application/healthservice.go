package application

import (
	"context"
	"time"
)

// Pinger is satisfied by storage that can report its availability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthReport is the liveness view served by the health endpoint.
type HealthReport struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Account   string    `json:"account,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Healthy reports whether every dependency is usable.
func (r HealthReport) Healthy() bool {
	return r.Status == "ok"
}

// HealthService checks the local database and reports the active account.
// It depends only on port interfaces.
type HealthService struct {
	db       Pinger
	provider *GitHubClientProvider
}

// NewHealthService creates a new HealthService with the required dependencies.
func NewHealthService(db Pinger, provider *GitHubClientProvider) *HealthService {
	return &HealthService{
		db:       db,
		provider: provider,
	}
}

// Check pings the database and reports the result. A missing account is
// not a failure; the API still serves health and account routes without one.
func (s *HealthService) Check(ctx context.Context) HealthReport {
	report := HealthReport{
		Status:    "ok",
		Database:  "ok",
		Account:   s.provider.Login(),
		CheckedAt: time.Now().UTC(),
	}

	if err := s.db.Ping(ctx); err != nil {
		report.Status = "degraded"
		report.Database = err.Error()
	}

	return report
}
