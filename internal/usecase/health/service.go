package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks across the search store, the query log
// database, and the embedding provider.
type Service struct {
	search    Pinger
	logs      Pinger
	embedding EmbeddingChecker
}

// New creates a Service. logs and embedding can be nil.
func New(search, logs Pinger, embedding EmbeddingChecker) *Service {
	return &Service{search: search, logs: logs, embedding: embedding}
}

// Check runs health checks against all components.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	if err := s.search.Ping(ctx); err != nil {
		checks["search_store"] = CheckError
	} else {
		checks["search_store"] = CheckOK
	}

	if s.logs != nil {
		if err := s.logs.Ping(ctx); err != nil {
			checks["query_log_store"] = CheckError
		} else {
			checks["query_log_store"] = CheckOK
		}
	}

	if s.embedding != nil {
		if err := s.embedding.HealthCheck(ctx); err != nil {
			checks["embedding"] = CheckError
		} else {
			checks["embedding"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
