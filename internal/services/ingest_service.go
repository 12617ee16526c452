package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/models"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/hh"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/logging"
)

var ErrIngestInProgress = errors.New("ingestion already in progress")

// EmployerFetcher fetches employers with their listings.
type EmployerFetcher interface {
	GetCompanyData(ctx context.Context, ids []string) ([]hh.Employer, error)
}

// CompanySaver persists normalized records.
type CompanySaver interface {
	SaveCompanyData(ctx context.Context, records []models.CompanyRecord) error
}

// IngestReport summarizes one ingestion run.
type IngestReport struct {
	RunID     string        `json:"run_id"`
	Requested int           `json:"requested"`
	Companies int           `json:"companies"`
	Vacancies int           `json:"vacancies"`
	Duration  time.Duration `json:"duration"`
}

// MarshalJSON renders Duration as text, e.g. "1.52s".
func (r IngestReport) MarshalJSON() ([]byte, error) {
	type report IngestReport
	return json.Marshal(struct {
		report
		Duration string `json:"duration"`
	}{report: report(r), Duration: r.Duration.String()})
}

// IngestService runs fetch, normalize and persist for the configured
// employer list. Only one run executes at a time.
type IngestService struct {
	Fetcher     EmployerFetcher
	Store       CompanySaver
	EmployerIDs func() ([]string, error)
	Log         *logging.Logger
	running     sync.Mutex
}

func NewIngestService(fetcher EmployerFetcher, store CompanySaver, employerIDs func() ([]string, error), log *logging.Logger) *IngestService {
	if log == nil {
		log = logging.NewNop()
	}
	return &IngestService{
		Fetcher:     fetcher,
		Store:       store,
		EmployerIDs: employerIDs,
		Log:         log,
	}
}

// Run performs one ingestion. Any failure aborts the run; companies saved
// before the failure stay in the store.
func (s *IngestService) Run(ctx context.Context) (IngestReport, error) {
	if !s.running.TryLock() {
		return IngestReport{}, ErrIngestInProgress
	}
	defer s.running.Unlock()

	start := time.Now()
	report := IngestReport{RunID: uuid.NewString()}
	log := s.Log.With("run_id", report.RunID)

	ids, err := s.EmployerIDs()
	if err != nil {
		return report, fmt.Errorf("ingest: read employer list: %w", err)
	}
	report.Requested = len(ids)
	log.Info("ingestion started", "employers", len(ids))

	employers, err := s.Fetcher.GetCompanyData(ctx, ids)
	if err != nil {
		return report, fmt.Errorf("ingest: fetch employers: %w", err)
	}

	records := Normalize(employers)
	for _, r := range records {
		report.Vacancies += len(r.Vacancies)
	}
	report.Companies = len(records)

	if err := s.Store.SaveCompanyData(ctx, records); err != nil {
		return report, fmt.Errorf("ingest: save: %w", err)
	}

	report.Duration = time.Since(start)
	log.Info("ingestion finished",
		"companies", report.Companies,
		"skipped", report.Requested-report.Companies,
		"vacancies", report.Vacancies,
		"duration", report.Duration,
	)
	return report, nil
}
