package hh

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/justsurfingit/hh-vacancy-tracker/pkg/logging"
)

const (
	DefaultBaseURL   = "https://api.hh.ru"
	DefaultUserAgent = "hh-vacancy-tracker/1.0 (vacancy-tracker@example.com)"
)

// NewClient instantiates an hh.ru API client
func NewClient(cfg Config) *Client {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	log := cfg.Logger
	if log == nil {
		log = logging.NewNop()
	}

	return &Client{
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		log:        log,
	}
}

// GetCompanyData fetches every employer in ids, in order, together with the
// first page of its listings. Employers whose metadata request fails with a
// non-2xx status are left out. A failed listings request leaves the employer
// with no vacancies. Transport and decoding failures abort the whole call.
func (c *Client) GetCompanyData(ctx context.Context, ids []string) ([]Employer, error) {
	if c == nil {
		return nil, fmt.Errorf("hh: client is nil")
	}

	employers := make([]Employer, 0, len(ids))
	for _, id := range ids {
		var meta employerResponse
		ok, err := c.getJSON(ctx, c.employerURL(id), &meta)
		if err != nil {
			return nil, err
		}
		if !ok {
			c.log.Warn("employer skipped", "employer_id", id)
			continue
		}

		var listing vacanciesResponse
		ok, err = c.getJSON(ctx, c.vacanciesURL(id), &listing)
		if err != nil {
			return nil, err
		}

		vacancies := []Vacancy{}
		if ok {
			vacancies = mapVacancies(listing.Items)
		} else {
			c.log.Warn("listings unavailable, keeping employer without vacancies", "employer_id", id)
		}

		c.log.Debug("employer fetched", "employer_id", id, "name", meta.Name, "vacancies", len(vacancies))
		employers = append(employers, Employer{
			CompanyID: id,
			Name:      meta.Name,
			Vacancies: vacancies,
		})
	}

	return employers, nil
}

// getJSON issues a GET and decodes a 2xx body into out. It reports false
// without an error when the API answers with any other status.
func (c *Client) getJSON(ctx context.Context, u string, out any) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return false, fmt.Errorf("hh: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("HH-User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("hh: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.Debug("hh api non-success status", "url", u, "status", resp.StatusCode, "body", strings.TrimSpace(string(body)))
		return false, nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return false, fmt.Errorf("hh: decode response from %s: %w", u, err)
	}
	return true, nil
}

func (c *Client) employerURL(id string) string {
	return c.baseURL + "/employers/" + url.PathEscape(id)
}

func (c *Client) vacanciesURL(id string) string {
	values := url.Values{}
	values.Set("employer_id", id)
	return c.baseURL + "/vacancies?" + values.Encode()
}

func mapVacancies(items []vacancyItem) []Vacancy {
	vacancies := make([]Vacancy, 0, len(items))
	for _, item := range items {
		vacancies = append(vacancies, Vacancy{
			Name:   item.Name,
			Salary: salaryFrom(item.Salary),
			URL:    item.AlternateURL,
		})
	}
	return vacancies
}

// salaryFrom keeps only the lower bound; no currency conversion.
func salaryFrom(s *salaryInfo) *int {
	if s == nil || s.From == nil {
		return nil
	}
	from := *s.From
	return &from
}
