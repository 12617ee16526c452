package services

import (
	"github.com/justsurfingit/hh-vacancy-tracker/internal/models"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/hh"
)

// Normalize maps fetched employers onto insert-ready records, keeping the
// employer order. Every employer yields a record, even with no vacancies.
func Normalize(employers []hh.Employer) []models.CompanyRecord {
	records := make([]models.CompanyRecord, 0, len(employers))
	for _, e := range employers {
		vacancies := make([]models.Vacancy, 0, len(e.Vacancies))
		for _, v := range e.Vacancies {
			vacancies = append(vacancies, models.Vacancy{
				CompanyID: e.CompanyID,
				Title:     v.Name,
				Salary:    copyInt(v.Salary),
				URL:       v.URL,
			})
		}

		records = append(records, models.CompanyRecord{
			Company: models.Company{
				CompanyID: e.CompanyID,
				Name:      e.Name,
			},
			Vacancies: vacancies,
		})
	}
	return records
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
