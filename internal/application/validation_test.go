package application

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateRequired(t *testing.T) {
	tests := []struct {
		name      string
		fieldName string
		value     string
		wantErr   bool
	}{
		{
			name:      "valid value",
			fieldName: "recordID",
			value:     "37846027",
			wantErr:   false,
		},
		{
			name:      "empty string",
			fieldName: "recordID",
			value:     "",
			wantErr:   true,
		},
		{
			name:      "whitespace only",
			fieldName: "query",
			value:     "   ",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRequired(tt.fieldName, tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRequired() error = %v, wantErr %v", err, tt.wantErr)
			}

			if err != nil {
				var valErr *ValidationError
				if !errors.As(err, &valErr) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
				if valErr.Field != tt.fieldName {
					t.Errorf("expected field %s, got %s", tt.fieldName, valErr.Field)
				}
				if !errors.Is(err, ErrInvalidInput) {
					t.Error("expected ValidationError to match ErrInvalidInput")
				}
			}
		})
	}
}

func TestValidateRequired_FormatsFieldName(t *testing.T) {
	err := ValidateRequired("recordID", "")
	if err == nil || !strings.Contains(err.Error(), "record ID is required") {
		t.Errorf("expected readable field name, got %v", err)
	}
}

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		value   int
		wantErr bool
	}{
		{value: 1, wantErr: false},
		{value: 10, wantErr: false},
		{value: 0, wantErr: true},
		{value: -3, wantErr: true},
	}

	for _, tt := range tests {
		err := ValidatePositive("minClusterSize", tt.value)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidatePositive(%d) error = %v, wantErr %v", tt.value, err, tt.wantErr)
		}
	}
}

func TestValidateTreeNumber(t *testing.T) {
	tests := []struct {
		name       string
		treeNumber string
		wantErr    bool
	}{
		{name: "single level", treeNumber: "C04", wantErr: false},
		{name: "deep", treeNumber: "C04.588.180", wantErr: false},
		{name: "empty", treeNumber: "", wantErr: true},
		{name: "empty level", treeNumber: "C04..180", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTreeNumber("node", tt.treeNumber)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateTreeNumber(%q) error = %v, wantErr %v", tt.treeNumber, err, tt.wantErr)
			}
		})
	}
}

func TestValidateYearRange(t *testing.T) {
	tests := []struct {
		name       string
		start, end int
		wantErr    bool
	}{
		{name: "unbounded", start: 0, end: 0},
		{name: "open end", start: 2021, end: 0},
		{name: "ordered", start: 2019, end: 2024},
		{name: "same year", start: 2024, end: 2024},
		{name: "reversed", start: 2024, end: 2019, wantErr: true},
		{name: "negative", start: -1, end: 2024, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateYearRange(tt.start, tt.end)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateYearRange(%d, %d) error = %v, wantErr %v", tt.start, tt.end, err, tt.wantErr)
			}
		})
	}
}

func TestRunErrorMatchesNotFound(t *testing.T) {
	err := &RunError{RunID: "abc", Reason: "no such run"}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected RunError to match ErrNotFound")
	}
	if got := (&RunError{Reason: "empty store"}).Error(); got != "cannot load latest run: empty store" {
		t.Errorf("Error() = %q", got)
	}
}
