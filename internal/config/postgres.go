package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"

	"gopkg.in/ini.v1"
)

const (
	DefaultSection  = "postgresql"
	DefaultDatabase = "hh_vacancies"

	// AdminDatabase is where CREATE DATABASE is issued from.
	AdminDatabase = "postgres"
)

var ErrSectionNotFound = errors.New("config: section not found")

// PostgresParams are the connection parameters from the [postgresql] section
type PostgresParams struct {
	Host     string
	Port     string
	User     string
	Password string
	SSLMode  string
	DBName   string
}

// LoadPostgres reads connection parameters from section of an ini file.
func LoadPostgres(filename, section string) (PostgresParams, error) {
	file, err := ini.Load(filename)
	if err != nil {
		return PostgresParams{}, fmt.Errorf("config: load %s: %w", filename, err)
	}

	if !file.HasSection(section) {
		return PostgresParams{}, fmt.Errorf("%w: [%s] in %s", ErrSectionNotFound, section, filename)
	}
	sec := file.Section(section)

	params := PostgresParams{
		Host:     sec.Key("host").MustString("localhost"),
		Port:     sec.Key("port").MustString("5432"),
		User:     sec.Key("user").MustString("postgres"),
		Password: sec.Key("password").String(),
		SSLMode:  sec.Key("sslmode").MustString("disable"),
		DBName:   DefaultDatabase,
	}

	for _, key := range []string{"dbname", "database"} {
		if v := sec.Key(key).String(); v != "" {
			params.DBName = v
			break
		}
	}

	return params, nil
}

// DSN builds a postgres URL for database dbname using these credentials.
func (p PostgresParams) DSN(dbname string) string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   net.JoinHostPort(p.Host, p.Port),
		Path:   "/" + dbname,
	}

	q := url.Values{}
	if p.SSLMode != "" {
		q.Set("sslmode", p.SSLMode)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
