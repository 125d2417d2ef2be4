package core

import (
	"encoding/json"
	"testing"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-09")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}
	if d.Year() != 2025 || d.Month() != 3 || d.Day() != 9 {
		t.Errorf("ParseDate = %v", d)
	}

	if _, err := ParseDate("09/03/2025"); err == nil {
		t.Error("non-canonical format should fail")
	}
}

func TestEndOfMonth(t *testing.T) {
	tests := []struct {
		year, month, wantDay int
	}{
		{2025, 1, 31},
		{2025, 2, 28},
		{2024, 2, 29},
		{2025, 4, 30},
		{2025, 12, 31},
	}
	for _, tt := range tests {
		if got := EndOfMonth(tt.year, tt.month); got.Day() != tt.wantDay {
			t.Errorf("EndOfMonth(%d, %d) = %d, want %d", tt.year, tt.month, got.Day(), tt.wantDay)
		}
	}
}

func TestDateIn(t *testing.T) {
	start := NewDate(2025, 1, 1)
	end := NewDate(2025, 12, 31)

	if !NewDate(2025, 6, 15).In(&start, &end) {
		t.Error("date inside range should match")
	}
	if !start.In(&start, &end) || !end.In(&start, &end) {
		t.Error("range bounds are inclusive")
	}
	if NewDate(2024, 12, 31).In(&start, &end) {
		t.Error("date before range should not match")
	}
	if !NewDate(1999, 1, 1).In(nil, &end) {
		t.Error("nil start is an open bound")
	}
	if !NewDate(2099, 1, 1).In(&start, nil) {
		t.Error("nil end is an open bound")
	}
}

func TestDateJSONRoundTrip(t *testing.T) {
	d := NewDate(2025, 2, 28)
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2025-02-28"` {
		t.Errorf("marshal = %s", b)
	}

	var back Date
	if err := json.Unmarshal(b, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(d.Time) {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}
