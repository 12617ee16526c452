package dtos

import "github.com/justsurfingit/hh-vacancy-tracker/internal/models"

type CompaniesResponse struct {
	Companies []models.CompanyVacancyCount `json:"companies"`
}

type VacanciesResponse struct {
	Count     int                     `json:"count"`
	Vacancies []models.VacancyListing `json:"vacancies"`
}

// AvgSalaryResponse carries null when no vacancy has a salary.
type AvgSalaryResponse struct {
	AvgSalary *float64 `json:"avg_salary"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	RunID string `json:"run_id,omitempty"`
}
