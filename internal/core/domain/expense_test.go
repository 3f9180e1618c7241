package domain_test

import (
	"testing"

	"github.com/fambudget/family_budget_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestSplitTags(t *testing.T) {
	tests := []struct {
		name string
		tags string
		want []string
	}{
		{name: "empty string", tags: "", want: []string{}},
		{name: "single tag", tags: "food", want: []string{"food"}},
		{name: "multiple tags", tags: "food,household,weekly", want: []string{"food", "household", "weekly"}},
		{name: "whitespace trimmed", tags: " food , household ", want: []string{"food", "household"}},
		{name: "empty entries dropped", tags: "food,,household,", want: []string{"food", "household"}},
		{name: "only separators", tags: ",,,", want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := domain.SplitTags(tt.tags)
			assert.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStatsPeriod_Days(t *testing.T) {
	assert.Equal(t, 7, domain.PeriodWeek.Days())
	assert.Equal(t, 30, domain.PeriodMonth.Days())
	assert.Equal(t, 365, domain.PeriodYear.Days())
	// Unknown periods fall back to the month window.
	assert.Equal(t, 30, domain.StatsPeriod("quarter").Days())
}
