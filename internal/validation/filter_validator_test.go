package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"haulboard/internal/domain"
)

func TestFilterValidator_ParseFilter(t *testing.T) {
	fv := NewFilterValidator(nil)

	spec, err := fv.ParseFilter(FilterInput{})
	require.NoError(t, err)
	assert.Equal(t, domain.NewFilterSpec(), spec)

	spec, err = fv.ParseFilter(FilterInput{
		Kind:   "Booking",
		Status: "confirmed",
		Range:  "week",
		Search: "Pune",
		Where:  "amount > 100",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.FilterSpec{
		Kind:       domain.KindBooking,
		Status:     domain.StatusConfirmed,
		DateRange:  domain.RangeWeek,
		SearchTerm: "Pune",
		Where:      "amount > 100",
	}, spec)
}

func TestFilterValidator_CollectsAllErrors(t *testing.T) {
	fv := NewFilterValidator(nil)

	_, err := fv.ParseFilter(FilterInput{
		Kind:   "invoice",
		Status: "lost",
		Range:  "year",
		Search: strings.Repeat("x", 101),
		Where:  "amount >",
	})
	require.Error(t, err)

	ve, ok := err.(*ValidationError)
	require.True(t, ok)
	for _, field := range []string{"kind", "status", "range", "search", "where"} {
		assert.Len(t, ve.GetFieldErrors(field), 1, field)
	}
}

func TestFilterValidator_StatusMustFitKind(t *testing.T) {
	fv := NewFilterValidator(nil)

	_, err := fv.ParseFilter(FilterInput{Kind: "earning", Status: "in-transit"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status")

	_, err = fv.ParseFilter(FilterInput{Kind: "earning", Status: "all"})
	assert.NoError(t, err)
}
