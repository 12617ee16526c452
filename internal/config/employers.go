package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// employerID accepts both "id": "1740" and "id": 1740.
type employerID string

func (e *employerID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*e = employerID(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("employer id must be a string or a number, got %s", string(data))
	}
	if _, err := strconv.ParseUint(n.String(), 10, 64); err != nil {
		return fmt.Errorf("employer id must be a non-negative integer, got %s", n)
	}
	*e = employerID(n.String())
	return nil
}

type employerEntry struct {
	ID   employerID `json:"id"`
	Name string     `json:"name"`
}

// ReadEmployerIDs reads the employer list file, a JSON array of objects
// with an "id" field, and returns the ids in file order.
func ReadEmployerIDs(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read employers file: %w", err)
	}

	var entries []employerEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("config: parse employers file %s: %w", path, err)
	}

	ids := make([]string, 0, len(entries))
	for i, entry := range entries {
		if entry.ID == "" {
			return nil, fmt.Errorf("config: employers file %s: entry %d has no id", path, i)
		}
		ids = append(ids, string(entry.ID))
	}

	return ids, nil
}
