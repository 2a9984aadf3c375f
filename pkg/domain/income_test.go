package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategorizeIncome(t *testing.T) {
	tests := []struct {
		in   string
		want IncomeCategory
	}{
		{"80000-100000", IncomeHigh},
		{"40000-60000", IncomeMedium},
		{"10000-20000", IncomeLow},
		{"75000", IncomeHigh},
		{"74999", IncomeMedium},
		{"30000-50000", IncomeMedium},
		{"29999", IncomeLow},
		{"$80,000+", IncomeHigh},
		{"$ 40,000 - $ 60,000", IncomeMedium},
		{"prefer not to say", IncomeLow},
		{"", IncomeLow},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, CategorizeIncome(tt.in))
		})
	}
}

func TestIncomeLowerBound(t *testing.T) {
	n, ok := IncomeLowerBound("50000-75000")
	assert.True(t, ok)
	assert.Equal(t, 50000, n)

	_, ok = IncomeLowerBound("-")
	assert.False(t, ok)
}
