package validator

import (
	"regexp"
	"strings"
	"time"
	"unicode"
)

var (
	emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9]{10,15}$`)
	timeRegex  = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	plateRegex = regexp.MustCompile(`^[A-Z0-9][A-Z0-9 \-]{1,14}$`)
)

// Рабочее окно автосервиса: слоты с 09:00 включительно до 17:00 не включительно.
const (
	WorkDayOpen  = "09:00"
	WorkDayClose = "17:00"
)

func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

func ValidatePhone(phone string) bool {
	cleanPhone := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) || r == '+' {
			return r
		}
		return -1
	}, phone)

	return phoneRegex.MatchString(cleanPhone)
}

func ValidatePassword(password string) bool {
	return len(password) >= 6
}

// ValidateAppointmentTime проверяет формат "HH:MM" и попадание в рабочее окно.
func ValidateAppointmentTime(value string) bool {
	if !timeRegex.MatchString(value) {
		return false
	}
	return value >= WorkDayOpen && value < WorkDayClose
}

// ParseAppointmentDate разбирает дату "2006-01-02" и нормализует её к полуночи UTC.
func ParseAppointmentDate(value string) (time.Time, error) {
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC), nil
}

// DateNotInPast сравнивает дату с сегодняшней, обе нормализованы к полуночи.
func DateNotInPast(date time.Time, now time.Time) bool {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !date.Before(today)
}

// NormalizePlate приводит госномер к верхнему регистру без краевых пробелов.
func NormalizePlate(plate string) string {
	return strings.ToUpper(strings.TrimSpace(plate))
}

func ValidatePlate(plate string) bool {
	return plateRegex.MatchString(NormalizePlate(plate))
}

func ValidateYear(year int, now time.Time) bool {
	return year >= 1900 && year <= now.Year()+1
}
