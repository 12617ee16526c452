package services

import (
	"testing"

	"github.com/justsurfingit/hh-vacancy-tracker/internal/models"
	"github.com/justsurfingit/hh-vacancy-tracker/pkg/hh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestNormalize(t *testing.T) {
	employers := []hh.Employer{
		{
			CompanyID: "2",
			Name:      "Globex",
			Vacancies: []hh.Vacancy{
				{Name: "Go developer", Salary: intPtr(250000), URL: "https://hh.ru/vacancy/1"},
				{Name: "QA", URL: "https://hh.ru/vacancy/2"},
			},
		},
		{CompanyID: "1", Name: "Acme", Vacancies: []hh.Vacancy{}},
	}

	got := Normalize(employers)
	require.Len(t, got, 2)

	assert.Equal(t, models.Company{CompanyID: "2", Name: "Globex"}, got[0].Company)
	require.Len(t, got[0].Vacancies, 2)
	assert.Equal(t, "2", got[0].Vacancies[0].CompanyID)
	assert.Equal(t, "Go developer", got[0].Vacancies[0].Title)
	assert.Equal(t, intPtr(250000), got[0].Vacancies[0].Salary)
	assert.Equal(t, "https://hh.ru/vacancy/1", got[0].Vacancies[0].URL)
	assert.Nil(t, got[0].Vacancies[1].Salary)

	assert.Equal(t, "1", got[1].Company.CompanyID)
	assert.Empty(t, got[1].Vacancies)
}

func TestNormalize_DoesNotAliasSalary(t *testing.T) {
	salary := 100
	got := Normalize([]hh.Employer{{CompanyID: "1", Vacancies: []hh.Vacancy{{Name: "Dev", Salary: &salary}}}})

	salary = 999
	require.NotNil(t, got[0].Vacancies[0].Salary)
	assert.Equal(t, 100, *got[0].Vacancies[0].Salary)
}

func TestNormalize_Empty(t *testing.T) {
	assert.Empty(t, Normalize(nil))
}
