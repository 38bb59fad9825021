package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"haulboard/internal/config"
)

func TestValidator_IsNonEmptyString(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"Empty string", "", false},
		{"Whitespace only", "   ", false},
		{"Tab and newline", "\t\n", false},
		{"Valid string", "hello", true},
		{"String with leading/trailing spaces", "  hello  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := validator.IsNonEmptyString(tt.input); result != tt.expected {
				t.Errorf("IsNonEmptyString(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestValidator_IsWithinLength(t *testing.T) {
	validator := NewValidator()

	if !validator.IsWithinLength("  Pune  ", 4) {
		t.Error("expected trimmed length to be used")
	}
	if !validator.IsWithinLength("मुंबई", 5) {
		t.Error("expected rune length to be used")
	}
	if validator.IsWithinLength("Mumbai", 5) {
		t.Error("expected Mumbai to exceed 5")
	}
}

func TestValidator_IsValidReference(t *testing.T) {
	validator := NewValidator()

	tests := []struct {
		input    string
		expected bool
	}{
		{"T-1001", true},
		{"3f2b1c9e-6c1d-4d8e-9a43-3b1b2f5a7c10", true},
		{"booking/2026.10", true},
		{"-leading", false},
		{"has space", false},
		{"", false},
	}

	for _, tt := range tests {
		if result := validator.IsValidReference(tt.input); result != tt.expected {
			t.Errorf("IsValidReference(%q) = %v, expected %v", tt.input, result, tt.expected)
		}
	}
}

func TestValidator_IsNonNegativeAmount(t *testing.T) {
	validator := NewValidator()
	zero := decimal.Zero
	negative := decimal.NewFromInt(-1)

	if !validator.IsNonNegativeAmount(nil) || !validator.IsNonNegativeAmount(&zero) {
		t.Error("nil and zero amounts are valid")
	}
	if validator.IsNonNegativeAmount(&negative) {
		t.Error("negative amount should be invalid")
	}
}

func TestValidator_IsReasonableDate(t *testing.T) {
	validator := NewValidator()
	now := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	validator.now = func() time.Time { return now }

	if !validator.IsReasonableDate(now.AddDate(0, -1, 0)) {
		t.Error("last month should be reasonable")
	}
	if validator.IsReasonableDate(now.AddDate(-11, 0, 0)) {
		t.Error("eleven years ago should not be reasonable")
	}
	if validator.IsReasonableDate(now.AddDate(2, 0, 0)) {
		t.Error("two years ahead should not be reasonable")
	}
}

func TestValidator_ConfiguredLimits(t *testing.T) {
	defaults := NewValidator()
	if defaults.TitleMaxLength() != 200 || defaults.ReferenceMaxLength() != 64 || defaults.SearchMaxLength() != 100 {
		t.Error("unexpected default limits")
	}

	cfg := config.NewConfig()
	cfg.Validation.TitleMaxLength = 10
	configured := NewValidatorWithConfig(cfg)
	if configured.TitleMaxLength() != 10 {
		t.Errorf("TitleMaxLength() = %d, expected 10", configured.TitleMaxLength())
	}
	if configured.IsWithinLength(strings.Repeat("x", 11), configured.TitleMaxLength()) {
		t.Error("expected configured limit to apply")
	}
}
