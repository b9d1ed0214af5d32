package models

import "time"

// DateFormat is the calendar-date layout used throughout the state
// document (birth dates, due dates, diary entry dates).
const DateFormat = "2006-01-02"

// BabyProfile holds the caregiver-entered profile. Dates are YYYY-MM-DD
// strings; empty means unset. GestationWeeks is nil when not recorded.
type BabyProfile struct {
	BirthDate      string `json:"birthDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
	GestationWeeks *int   `json:"gestationWeeks,omitempty" validate:"omitempty,gt=0,lt=45"`
	DueDate        string `json:"dueDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Preterm reports whether the recorded gestation period makes corrected
// age applicable (strictly between 0 and 37 weeks).
func (p BabyProfile) Preterm() bool {
	return p.GestationWeeks != nil && *p.GestationWeeks > 0 && *p.GestationWeeks < 37
}

// ParseDate parses a YYYY-MM-DD date string as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateFormat, s)
}
