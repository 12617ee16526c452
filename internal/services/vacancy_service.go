package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/justsurfingit/hh-vacancy-tracker/internal/config"
	"github.com/justsurfingit/hh-vacancy-tracker/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VacancyReader is the read side of the store used by the menu and the API.
type VacancyReader interface {
	GetCompaniesAndVacanciesCount(ctx context.Context) ([]models.CompanyVacancyCount, error)
	GetAllVacancies(ctx context.Context) ([]models.VacancyListing, error)
	GetAvgSalary(ctx context.Context) (*float64, error)
	GetVacanciesWithHigherSalary(ctx context.Context) ([]models.VacancyListing, error)
	GetVacanciesWithKeyword(ctx context.Context, keyword string) ([]models.VacancyListing, error)
}

// VacancyService stores companies and vacancies and answers the aggregate
// queries over them.
type VacancyService struct {
	DB   *gorm.DB
	Mode config.IngestMode
}

var _ VacancyReader = (*VacancyService)(nil)

func NewVacancyService(db *gorm.DB, mode config.IngestMode) *VacancyService {
	if mode == "" {
		mode = config.IngestModeAppend
	}
	return &VacancyService{
		DB:   db,
		Mode: mode,
	}
}

// CreateTables creates companies and vacancies if they are missing.
func (s *VacancyService) CreateTables(ctx context.Context) error {
	if err := s.DB.WithContext(ctx).AutoMigrate(&models.Company{}, &models.Vacancy{}); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	return nil
}

// SaveCompanyData writes each record in its own transaction: the company is
// inserted unless its id already exists, then its vacancies are inserted.
// Records before a failing one stay committed.
func (s *VacancyService) SaveCompanyData(ctx context.Context, records []models.CompanyRecord) error {
	for _, record := range records {
		err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			company := record.Company
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "company_id"}},
				DoNothing: true,
			}).Create(&company).Error
			if err != nil {
				return fmt.Errorf("insert company: %w", err)
			}

			if s.Mode == config.IngestModeReplace {
				err := tx.Where("company_id = ?", company.CompanyID).Delete(&models.Vacancy{}).Error
				if err != nil {
					return fmt.Errorf("clear vacancies: %w", err)
				}
			}

			if len(record.Vacancies) == 0 {
				return nil
			}

			vacancies := make([]models.Vacancy, len(record.Vacancies))
			for i, v := range record.Vacancies {
				v.VacancyID = 0
				v.CompanyID = company.CompanyID
				v.Company = nil
				vacancies[i] = v
			}
			if err := tx.Omit(clause.Associations).Create(&vacancies).Error; err != nil {
				return fmt.Errorf("insert vacancies: %w", err)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("save company %s: %w", record.Company.CompanyID, err)
		}
	}
	return nil
}

// GetCompaniesAndVacanciesCount lists companies that have vacancies with
// their vacancy count. Companies without vacancies are not listed.
func (s *VacancyService) GetCompaniesAndVacanciesCount(ctx context.Context) ([]models.CompanyVacancyCount, error) {
	var counts []models.CompanyVacancyCount
	err := s.DB.WithContext(ctx).
		Table("companies").
		Select("companies.name AS company_name, COUNT(vacancies.vacancy_id) AS vacancy_count").
		Joins("JOIN vacancies ON vacancies.company_id = companies.company_id").
		Group("companies.company_id, companies.name").
		Order("companies.name, companies.company_id").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("count vacancies per company: %w", err)
	}
	return counts, nil
}

// GetAllVacancies lists every vacancy with its company name.
func (s *VacancyService) GetAllVacancies(ctx context.Context) ([]models.VacancyListing, error) {
	var listings []models.VacancyListing
	if err := s.listings(ctx).Scan(&listings).Error; err != nil {
		return nil, fmt.Errorf("list vacancies: %w", err)
	}
	return listings, nil
}

// GetAvgSalary averages the vacancies that have a salary. It returns nil
// when none does.
func (s *VacancyService) GetAvgSalary(ctx context.Context) (*float64, error) {
	var avg sql.NullFloat64
	err := s.DB.WithContext(ctx).
		Model(&models.Vacancy{}).
		Select("CAST(AVG(salary) AS DOUBLE PRECISION)").
		Where("salary IS NOT NULL").
		Row().
		Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("average salary: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// GetVacanciesWithHigherSalary lists vacancies paying strictly more than
// the current average, computed first in a separate query.
func (s *VacancyService) GetVacanciesWithHigherSalary(ctx context.Context) ([]models.VacancyListing, error) {
	avg, err := s.GetAvgSalary(ctx)
	if err != nil {
		return nil, err
	}
	if avg == nil {
		return []models.VacancyListing{}, nil
	}

	var listings []models.VacancyListing
	if err := s.listings(ctx).Where("vacancies.salary > ?", *avg).Scan(&listings).Error; err != nil {
		return nil, fmt.Errorf("list vacancies above %.2f: %w", *avg, err)
	}
	return listings, nil
}

// GetVacanciesWithKeyword lists vacancies whose title contains keyword,
// ignoring case.
func (s *VacancyService) GetVacanciesWithKeyword(ctx context.Context, keyword string) ([]models.VacancyListing, error) {
	pattern := "%" + strings.ToLower(keyword) + "%"

	var listings []models.VacancyListing
	if err := s.listings(ctx).Where("LOWER(vacancies.title) LIKE ?", pattern).Scan(&listings).Error; err != nil {
		return nil, fmt.Errorf("search vacancies by %q: %w", keyword, err)
	}
	return listings, nil
}

func (s *VacancyService) listings(ctx context.Context) *gorm.DB {
	return s.DB.WithContext(ctx).
		Table("vacancies").
		Select("companies.name AS company_name, vacancies.title, vacancies.salary, vacancies.url").
		Joins("JOIN companies ON companies.company_id = vacancies.company_id").
		Order("vacancies.vacancy_id")
}
