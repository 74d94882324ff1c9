package format

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"1896.2", "$1,896.20"},
		{"300000", "$300,000.00"},
		{"1234567.891", "$1,234,567.89"},
		{"-1234.565", "-$1,234.57"},
		{"-0.001", "$0.00"},
		{"999.995", "$1,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := Currency(decimal.RequireFromString(tt.input)); got != tt.expected {
				t.Errorf("Currency(%s) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestNumericCurrency(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"0", "0.00"},
		{"1896.2", "1,896.20"},
		{"-300000", "-300,000.00"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := NumericCurrency(decimal.RequireFromString(tt.input)); got != tt.expected {
				t.Errorf("NumericCurrency(%s) = %s, expected %s", tt.input, got, tt.expected)
			}
		})
	}
}

func TestPercent(t *testing.T) {
	if got := Percent(decimal.RequireFromString("56.05"), 1); got != "56.1%" {
		t.Errorf("Percent() = %s, expected 56.1%%", got)
	}
	if got := Percent(decimal.Zero, 2); got != "0.00%" {
		t.Errorf("Percent() = %s, expected 0.00%%", got)
	}
}
