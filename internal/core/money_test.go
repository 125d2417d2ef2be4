package core

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1234.56", "1234.56", false},
		{"-99.00", "-99", false},
		{"12,34", "12.34", false},
		{" 250 ", "250", false},
		{"", "", true},
		{"12.3.4", "", true},
		{"abc", "", true},
	}
	for _, tt := range tests {
		got, err := ParseAmount(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) should fail", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q): %v", tt.in, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("ParseAmount(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	got := Percentage(decimal.NewFromInt(1), decimal.NewFromInt(3))
	if got.String() != "33.3" {
		t.Errorf("Percentage(1, 3) = %s, want 33.3", got)
	}

	if !Percentage(decimal.NewFromInt(5), decimal.Zero).IsZero() {
		t.Error("Percentage with zero total should be zero")
	}
}

func TestRound2(t *testing.T) {
	got := Round2(decimal.RequireFromString("10.005"))
	if got.String() != "10.01" {
		t.Errorf("Round2(10.005) = %s, want 10.01", got)
	}
}
