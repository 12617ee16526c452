package models

// Company is an employer, keyed by its hh.ru id.
type Company struct {
	CompanyID string `gorm:"primaryKey;size:255" json:"company_id"`
	Name      string `gorm:"size:255" json:"name"`
}

// Vacancy is one listing of a company. Salary is the lower bound of the
// advertised range and stays NULL when the listing has none.
type Vacancy struct {
	VacancyID uint   `gorm:"primaryKey;autoIncrement" json:"vacancy_id"`
	CompanyID string `gorm:"size:255;index" json:"company_id"`
	Title     string `gorm:"size:255" json:"title"`
	Salary    *int   `json:"salary"`
	URL       string `gorm:"type:text" json:"url"`

	// Association only used to declare the foreign key.
	Company *Company `gorm:"foreignKey:CompanyID;references:CompanyID" json:"-"`
}

// CompanyRecord is a company together with the vacancies to insert for it.
type CompanyRecord struct {
	Company   Company   `json:"company"`
	Vacancies []Vacancy `json:"vacancies"`
}

type CompanyVacancyCount struct {
	CompanyName  string `json:"company_name"`
	VacancyCount int64  `json:"vacancy_count"`
}

type VacancyListing struct {
	CompanyName string `json:"company_name"`
	Title       string `json:"title"`
	Salary      *int   `json:"salary"`
	URL         string `json:"url"`
}
