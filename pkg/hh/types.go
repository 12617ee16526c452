package hh

import (
	"net/http"

	"github.com/justsurfingit/hh-vacancy-tracker/pkg/logging"
)

// Config defines hh.ru API client settings
type Config struct {
	BaseURL    string
	UserAgent  string
	HTTPClient *http.Client
	Logger     *logging.Logger
}

// Client fetches employers and their listings from the hh.ru API
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        *logging.Logger
}

// Employer is one employer with the first page of its listings.
type Employer struct {
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	Vacancies []Vacancy `json:"vacancies"`
}

// Vacancy is a listing reduced to the fields the tracker stores.
// Salary holds the lower bound of the advertised range, nil when unknown.
type Vacancy struct {
	Name   string `json:"name"`
	Salary *int   `json:"salary"`
	URL    string `json:"url"`
}

type employerResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type vacanciesResponse struct {
	Items   []vacancyItem `json:"items"`
	Found   int           `json:"found"`
	Pages   int           `json:"pages"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
}

type vacancyItem struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Salary       *salaryInfo `json:"salary"`
	AlternateURL string      `json:"alternate_url"`
}

type salaryInfo struct {
	From     *int   `json:"from"`
	To       *int   `json:"to"`
	Currency string `json:"currency"`
	Gross    bool   `json:"gross"`
}
