package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/dtos"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/models"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/services"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/logging"
)

// IngestRunner starts one ingestion run.
type IngestRunner interface {
	Run(ctx context.Context) (services.IngestReport, error)
}

// VacancyHandler exposes the store's read queries and the ingestion trigger
type VacancyHandler struct {
	Store  services.VacancyReader
	Ingest IngestRunner
	Log    *logging.Logger
}

// NewVacancyHandler creates the handler with dependencies
func NewVacancyHandler(store services.VacancyReader, ingest IngestRunner, log *logging.Logger) *VacancyHandler {
	if log == nil {
		log = logging.NewNop()
	}
	return &VacancyHandler{
		Store:  store,
		Ingest: ingest,
		Log:    log,
	}
}

// Register mounts the routes on an /api/v1 group
func (h *VacancyHandler) Register(api *gin.RouterGroup) {
	api.GET("/health", HealthCheck)
	api.GET("/companies", h.ListCompanies)
	api.GET("/vacancies", h.ListVacancies)
	api.GET("/vacancies/salary/avg", h.AvgSalary)
	api.GET("/vacancies/salary/above-avg", h.AboveAvgSalary)
	api.POST("/ingest", h.RunIngest)
}

func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListCompanies is GET /companies
func (h *VacancyHandler) ListCompanies(c *gin.Context) {
	counts, err := h.Store.GetCompaniesAndVacanciesCount(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to count vacancies", err)
		return
	}
	if counts == nil {
		counts = []models.CompanyVacancyCount{}
	}
	c.JSON(http.StatusOK, dtos.CompaniesResponse{Companies: counts})
}

// ListVacancies is GET /vacancies, narrowed by ?keyword= when given
func (h *VacancyHandler) ListVacancies(c *gin.Context) {
	var (
		listings []models.VacancyListing
		err      error
	)
	if keyword, ok := c.GetQuery("keyword"); ok {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			c.JSON(http.StatusBadRequest, dtos.ErrorResponse{Error: "keyword must not be empty"})
			return
		}
		listings, err = h.Store.GetVacanciesWithKeyword(c.Request.Context(), keyword)
	} else {
		listings, err = h.Store.GetAllVacancies(c.Request.Context())
	}
	if err != nil {
		h.fail(c, "Failed to list vacancies", err)
		return
	}
	h.listings(c, listings)
}

// AvgSalary is GET /vacancies/salary/avg
func (h *VacancyHandler) AvgSalary(c *gin.Context) {
	avg, err := h.Store.GetAvgSalary(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to compute average salary", err)
		return
	}
	c.JSON(http.StatusOK, dtos.AvgSalaryResponse{AvgSalary: avg})
}

// AboveAvgSalary is GET /vacancies/salary/above-avg
func (h *VacancyHandler) AboveAvgSalary(c *gin.Context) {
	listings, err := h.Store.GetVacanciesWithHigherSalary(c.Request.Context())
	if err != nil {
		h.fail(c, "Failed to list vacancies", err)
		return
	}
	h.listings(c, listings)
}

// RunIngest is POST /ingest; it blocks until the run is over
func (h *VacancyHandler) RunIngest(c *gin.Context) {
	report, err := h.Ingest.Run(c.Request.Context())
	if errors.Is(err, services.ErrIngestInProgress) {
		c.JSON(http.StatusConflict, dtos.ErrorResponse{Error: err.Error()})
		return
	}
	if err != nil {
		h.Log.Error("ingestion failed", "run_id", report.RunID, "err", err)
		c.JSON(http.StatusBadGateway, dtos.ErrorResponse{Error: "Ingestion failed: " + err.Error(), RunID: report.RunID})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *VacancyHandler) listings(c *gin.Context, listings []models.VacancyListing) {
	if listings == nil {
		listings = []models.VacancyListing{}
	}
	c.JSON(http.StatusOK, dtos.VacanciesResponse{Count: len(listings), Vacancies: listings})
}

func (h *VacancyHandler) fail(c *gin.Context, msg string, err error) {
	h.Log.Error(msg, "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, dtos.ErrorResponse{Error: msg + ": " + err.Error()})
}
