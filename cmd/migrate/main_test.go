package main

import (
	"regexp"
	"testing"
)

func TestMigrationFilenamePattern(t *testing.T) {
	pattern := regexp.MustCompile(`^(\d{4})_(.+)\.sql$`)

	tests := []struct {
		filename string
		valid    bool
		version  string
		name     string
	}{
		{"0001_create_budgets.sql", true, "0001", "create_budgets"},
		{"0002_create_budget_items.sql", true, "0002", "create_budget_items"},
		{"001_invalid.sql", false, "", ""},       // wrong number format
		{"0001_test", false, "", ""},             // missing .sql
		{"0001.sql", false, "", ""},              // missing name
		{"invalid_0001_test.sql", false, "", ""}, // wrong order
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			m := pattern.FindStringSubmatch(tt.filename)
			if tt.valid {
				if m == nil {
					t.Fatalf("%s should match", tt.filename)
				}
				if m[1] != tt.version || m[2] != tt.name {
					t.Errorf("got version=%s name=%s, want %s %s", m[1], m[2], tt.version, tt.name)
				}
			} else if m != nil {
				t.Errorf("%s should not match", tt.filename)
			}
		})
	}
}
