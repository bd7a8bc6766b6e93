package utils

import (
	"testing"
	"time"
)

func TestNameSimilarity(t *testing.T) {
	cases := []struct {
		a, b string
		min  float64
		max  float64
	}{
		{"Fresh Farms Pvt Ltd", "Fresh Farms Pvt Ltd", 1, 1},
		{"Fresh Farms Pvt Ltd", "fresh farms pvt ltd", 1, 1},
		{"Fresh Farms Pvt Ltd", "Fresh Farm Pvt Ltd", 0.9, 1},
		{"Fresh Farms", "Metro Dairy", 0, 0.4},
		{"", "", 1, 1},
	}
	for _, c := range cases {
		got := NameSimilarity(c.a, c.b)
		if got < c.min || got > c.max {
			t.Errorf("NameSimilarity(%q, %q) = %.3f, want in [%.2f, %.2f]", c.a, c.b, got, c.min, c.max)
		}
	}
}

func TestIsValidEmail(t *testing.T) {
	if !IsValidEmail("owner@spicekitchen.in") {
		t.Error("valid email rejected")
	}
	if IsValidEmail("not-an-email") {
		t.Error("invalid email accepted")
	}
}

func TestUniqueSlice(t *testing.T) {
	got := UniqueSlice([]string{"a", "b", "a", "c", "b"})
	if len(got) != 3 || got[0] != "a" || got[1] != "b" || got[2] != "c" {
		t.Errorf("UniqueSlice = %v", got)
	}
}

func TestConvertToDate(t *testing.T) {
	// 2024-03-01 20:00 UTC is already 2024-03-02 in Kolkata.
	utc := time.Date(2024, 3, 1, 20, 0, 0, 0, time.UTC)
	got, err := ConvertToDate(utc, "Asia/Kolkata")
	if err != nil {
		t.Fatal(err)
	}
	if got.Format("2006-01-02") != "2024-03-02" {
		t.Errorf("ConvertToDate = %s, want 2024-03-02", got.Format("2006-01-02"))
	}
	if got.Hour() != 0 || got.Minute() != 0 {
		t.Error("time components not zeroed")
	}
}

func TestParseDecimal(t *testing.T) {
	d, err := ParseDecimal(" 1200.50 ")
	if err != nil || d.String() != "1200.5" {
		t.Errorf("ParseDecimal = %s, err=%v", d, err)
	}
	if _, err := ParseDecimal(""); err == nil {
		t.Error("empty string accepted")
	}
}

func TestGetMonthGrid(t *testing.T) {
	start, end := GetMonthGrid(2024, time.February, time.UTC)
	if start.Day() != 1 || end.Day() != 29 {
		t.Errorf("Feb 2024 grid = [%s, %s]", start, end)
	}
}

func TestDereferencePtr(t *testing.T) {
	v := 5
	if DereferencePtr(&v) != 5 {
		t.Error("pointer value lost")
	}
	if DereferencePtr[int](nil, 7) != 7 {
		t.Error("default not applied")
	}
	if DereferencePtr[string](nil) != "" {
		t.Error("zero value not applied")
	}
}
