package hh

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	employers map[string]string
	listings  map[string]string
	failing   map[string]int
}

func (f fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/vacancies":
		id := r.URL.Query().Get("employer_id")
		if code, ok := f.failing["vacancies/"+id]; ok {
			w.WriteHeader(code)
			return
		}
		body, ok := f.listings[id]
		if !ok {
			body = `{"items":[]}`
		}
		_, _ = w.Write([]byte(body))
	case len(r.URL.Path) > len("/employers/") && r.URL.Path[:len("/employers/")] == "/employers/":
		id := r.URL.Path[len("/employers/"):]
		if code, ok := f.failing["employers/"+id]; ok {
			w.WriteHeader(code)
			_, _ = w.Write([]byte(`{"errors":[{"type":"not_found"}]}`))
			return
		}
		name, ok := f.employers[id]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"id":"` + id + `","name":"` + name + `"}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func newTestClient(t *testing.T, api http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return NewClient(Config{BaseURL: srv.URL + "/", HTTPClient: srv.Client()})
}

func intPtr(v int) *int { return &v }

func TestGetCompanyData_MapsEmployerAndListings(t *testing.T) {
	client := newTestClient(t, fakeAPI{
		employers: map[string]string{"1": "Acme"},
		listings: map[string]string{
			"1": `{"items":[{"name":"Dev","salary":{"from":500},"alternate_url":"http://x"}],"found":1,"pages":1}`,
		},
	})

	got, err := client.GetCompanyData(context.Background(), []string{"1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].CompanyID)
	assert.Equal(t, "Acme", got[0].Name)
	require.Len(t, got[0].Vacancies, 1)
	assert.Equal(t, Vacancy{Name: "Dev", Salary: intPtr(500), URL: "http://x"}, got[0].Vacancies[0])
}

func TestGetCompanyData_SalaryNormalization(t *testing.T) {
	client := newTestClient(t, fakeAPI{
		employers: map[string]string{"7": "Globex"},
		listings: map[string]string{
			"7": `{"items":[
				{"name":"no salary object","alternate_url":"u1"},
				{"name":"null salary","salary":null,"alternate_url":"u2"},
				{"name":"upper bound only","salary":{"to":900,"currency":"RUR"},"alternate_url":"u3"},
				{"name":"null lower bound","salary":{"from":null,"to":900},"alternate_url":"u4"},
				{"name":"range","salary":{"from":100,"to":900,"currency":"RUR"},"alternate_url":"u5"}
			]}`,
		},
	})

	got, err := client.GetCompanyData(context.Background(), []string{"7"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Len(t, got[0].Vacancies, 5)

	for _, v := range got[0].Vacancies[:4] {
		assert.Nil(t, v.Salary, v.Name)
	}
	require.NotNil(t, got[0].Vacancies[4].Salary)
	assert.Equal(t, 100, *got[0].Vacancies[4].Salary)
}

func TestGetCompanyData_SkipsEmployerOnMetadataFailure(t *testing.T) {
	client := newTestClient(t, fakeAPI{
		employers: map[string]string{"1": "Acme", "3": "Initech"},
		failing:   map[string]int{"employers/2": http.StatusForbidden},
	})

	got, err := client.GetCompanyData(context.Background(), []string{"1", "2", "3", "404"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].CompanyID)
	assert.Equal(t, "3", got[1].CompanyID)
}

func TestGetCompanyData_EmptyVacanciesOnListingFailure(t *testing.T) {
	client := newTestClient(t, fakeAPI{
		employers: map[string]string{"1": "Acme"},
		failing:   map[string]int{"vacancies/1": http.StatusInternalServerError},
	})

	got, err := client.GetCompanyData(context.Background(), []string{"1"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Acme", got[0].Name)
	assert.NotNil(t, got[0].Vacancies)
	assert.Empty(t, got[0].Vacancies)
}

func TestGetCompanyData_PreservesCallerOrder(t *testing.T) {
	client := newTestClient(t, fakeAPI{
		employers: map[string]string{"a": "A", "b": "B", "c": "C"},
	})

	got, err := client.GetCompanyData(context.Background(), []string{"c", "a", "b"})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{got[0].CompanyID, got[1].CompanyID, got[2].CompanyID})
}

func TestGetCompanyData_TransportFailureAborts(t *testing.T) {
	srv := httptest.NewServer(fakeAPI{})
	client := NewClient(Config{BaseURL: srv.URL})
	srv.Close()

	got, err := client.GetCompanyData(context.Background(), []string{"1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hh: request failed")
	assert.Nil(t, got)
}

func TestGetCompanyData_MalformedBodyAborts(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"name":`))
	}))

	_, err := client.GetCompanyData(context.Background(), []string{"1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hh: decode response")
}

func TestGetCompanyData_SendsHeaders(t *testing.T) {
	var gotUA, gotHHUA, gotAccept string
	client := NewClient(Config{UserAgent: "tracker-test/0.1"})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotHHUA = r.Header.Get("HH-User-Agent")
		gotAccept = r.Header.Get("Accept")
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	client.baseURL = srv.URL

	got, err := client.GetCompanyData(context.Background(), []string{"1"})
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Equal(t, "tracker-test/0.1", gotUA)
	assert.Equal(t, "tracker-test/0.1", gotHHUA)
	assert.Equal(t, "application/json", gotAccept)
}

func TestNewClient_Defaults(t *testing.T) {
	client := NewClient(Config{})
	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, DefaultUserAgent, client.userAgent)
	assert.Equal(t, http.DefaultClient, client.httpClient)
	assert.Equal(t, "https://api.hh.ru/vacancies?employer_id=42", client.vacanciesURL("42"))
	assert.Equal(t, "https://api.hh.ru/employers/42", client.employerURL("42"))
}
