package domain

import (
	"strconv"
	"strings"
	"unicode"
)

// IncomeCategory buckets an income range into a coarse, shareable fact.
type IncomeCategory string

const (
	IncomeLow    IncomeCategory = "low"
	IncomeMedium IncomeCategory = "medium"
	IncomeHigh   IncomeCategory = "high"

	HighIncomeFloor   = 75000
	MediumIncomeFloor = 30000
)

// IncomeLowerBound returns the first integer in an income range such as
// "50000-75000", "$80,000+" or "10000". Currency symbols, thousands
// separators and spaces are ignored. ok is false when no digits are found.
func IncomeLowerBound(incomeRange string) (bound int, ok bool) {
	cleaned := strings.Map(func(r rune) rune {
		if r == '$' || r == ',' || unicode.IsSpace(r) {
			return -1
		}
		return r
	}, incomeRange)

	end := 0
	for end < len(cleaned) && cleaned[end] >= '0' && cleaned[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}
	n, err := strconv.Atoi(cleaned[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// CategorizeIncome maps the lower bound onto the cutoffs; an unparseable
// range counts as a lower bound of zero.
func CategorizeIncome(incomeRange string) IncomeCategory {
	bound, _ := IncomeLowerBound(incomeRange)
	switch {
	case bound >= HighIncomeFloor:
		return IncomeHigh
	case bound >= MediumIncomeFloor:
		return IncomeMedium
	default:
		return IncomeLow
	}
}
