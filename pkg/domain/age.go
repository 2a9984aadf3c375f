package domain

import "time"

// AdultAge is the minimum age accepted by the KYC flow.
const AdultAge = 18

// AgeAt returns the age in whole years of someone born on birthDate at the
// reference time now. Calendar fields are compared directly: the year
// difference is reduced by one when (month, day) of now precedes the birthday.
func AgeAt(birthDate, now time.Time) int {
	b := birthDate.UTC()
	n := now.UTC()
	age := n.Year() - b.Year()
	if n.Month() < b.Month() || (n.Month() == b.Month() && n.Day() < b.Day()) {
		age--
	}
	return age
}

// IsAdult reports whether AgeAt(birthDate, now) is at least AdultAge.
func IsAdult(birthDate, now time.Time) bool {
	return AgeAt(birthDate, now) >= AdultAge
}
