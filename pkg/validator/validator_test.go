package validator

import (
	"testing"
	"time"
)

func TestValidateAppointmentTime(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"09:00", true},
		{"12:30", true},
		{"16:59", true},
		{"08:59", false},
		{"17:00", false},
		{"17:30", false},
		{"00:00", false},
		{"23:59", false},
		{"9:00", false},
		{"09:60", false},
		{"24:00", false},
		{"0900", false},
		{"", false},
		{"abc", false},
	}

	for _, tt := range tests {
		if got := ValidateAppointmentTime(tt.value); got != tt.want {
			t.Errorf("ValidateAppointmentTime(%q) = %v, want %v", tt.value, got, tt.want)
		}
	}
}

func TestParseAppointmentDate(t *testing.T) {
	date, err := ParseAppointmentDate("2026-09-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if !date.Equal(want) {
		t.Errorf("got %v, want %v", date, want)
	}

	if _, err := ParseAppointmentDate("15.09.2026"); err == nil {
		t.Error("expected error for wrong format")
	}

	if _, err := ParseAppointmentDate("2026-13-01"); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestDateNotInPast(t *testing.T) {
	now := time.Date(2026, 9, 15, 14, 30, 0, 0, time.UTC)

	today := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	if !DateNotInPast(today, now) {
		t.Error("today must not be in the past")
	}

	tomorrow := today.AddDate(0, 0, 1)
	if !DateNotInPast(tomorrow, now) {
		t.Error("tomorrow must not be in the past")
	}

	yesterday := today.AddDate(0, 0, -1)
	if DateNotInPast(yesterday, now) {
		t.Error("yesterday must be in the past")
	}
}

func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a123bc 77", "A123BC 77"},
		{"  x555xx 99  ", "X555XX 99"},
		{"AB-1234", "AB-1234"},
	}

	for _, tt := range tests {
		if got := NormalizePlate(tt.in); got != tt.want {
			t.Errorf("NormalizePlate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidatePlate(t *testing.T) {
	valid := []string{"A123BC 77", "a123bc 77", "AB-1234", "X5"}
	for _, plate := range valid {
		if !ValidatePlate(plate) {
			t.Errorf("ValidatePlate(%q) = false, want true", plate)
		}
	}

	invalid := []string{"", "A", "-A123", "А123ВС 77", "A123BC!77", "A123BC0123456789"}
	for _, plate := range invalid {
		if ValidatePlate(plate) {
			t.Errorf("ValidatePlate(%q) = true, want false", plate)
		}
	}
}

func TestValidateYear(t *testing.T) {
	now := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

	if !ValidateYear(1900, now) {
		t.Error("1900 must be valid")
	}
	if !ValidateYear(2026, now) {
		t.Error("current year must be valid")
	}
	if !ValidateYear(2027, now) {
		t.Error("next year must be valid")
	}
	if ValidateYear(1899, now) {
		t.Error("1899 must be invalid")
	}
	if ValidateYear(2028, now) {
		t.Error("year after next must be invalid")
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("user@example.com") {
		t.Error("valid email rejected")
	}
	if ValidateEmail("not-an-email") {
		t.Error("invalid email accepted")
	}
}

func TestValidatePhone(t *testing.T) {
	if !ValidatePhone("+7 (912) 345-67-89") {
		t.Error("valid phone rejected")
	}
	if ValidatePhone("12345") {
		t.Error("too short phone accepted")
	}
}
