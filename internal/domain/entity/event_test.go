package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfidenceTierFor(t *testing.T) {
	tests := []struct {
		name       string
		truthScore float64
		want       ConfidenceTier
	}{
		{name: "well above confirmed", truthScore: 95, want: TierConfirmed},
		{name: "exactly confirmed threshold", truthScore: ConfirmedThreshold, want: TierConfirmed},
		{name: "just below confirmed", truthScore: 74.9, want: TierDeveloping},
		{name: "exactly developing threshold", truthScore: DevelopingThreshold, want: TierDeveloping},
		{name: "just below developing", truthScore: 39.9, want: TierUnverified},
		{name: "zero", truthScore: 0, want: TierUnverified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConfidenceTierFor(tt.truthScore))
		})
	}
}

func TestConflictSeverityFor(t *testing.T) {
	tests := []struct {
		name           string
		coherenceScore float64
		want           ConflictSeverity
	}{
		{name: "fully coherent", coherenceScore: 100, want: ConflictNone},
		{name: "boundary none", coherenceScore: 70, want: ConflictNone},
		{name: "boundary low", coherenceScore: 50, want: ConflictLow},
		{name: "boundary medium", coherenceScore: 30, want: ConflictMedium},
		{name: "just below medium", coherenceScore: 29.9, want: ConflictHigh},
		{name: "zero", coherenceScore: 0, want: ConflictHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ConflictSeverityFor(tt.coherenceScore))
		})
	}
}

func TestEvent_DeriveConfidenceTier(t *testing.T) {
	e := Event{TruthScore: 80}
	e.DeriveConfidenceTier()
	assert.Equal(t, TierConfirmed, e.ConfidenceTier)

	e.TruthScore = 10
	e.DeriveConfidenceTier()
	assert.Equal(t, TierUnverified, e.ConfidenceTier)
}

func TestEvent_DerivePoliticsFlag(t *testing.T) {
	lexicon := map[string]bool{"Senate": true, "Parliament": true}

	t.Run("category politics always sets flag", func(t *testing.T) {
		e := Event{Category: CategoryPolitics}
		e.DerivePoliticsFlag(nil, lexicon)
		assert.True(t, e.PoliticsFlag)
	})

	t.Run("matching entity sets flag", func(t *testing.T) {
		e := Event{Category: CategoryOther}
		e.DerivePoliticsFlag([]string{"Mars", "Senate"}, lexicon)
		assert.True(t, e.PoliticsFlag)
	})

	t.Run("no match leaves flag false", func(t *testing.T) {
		e := Event{Category: CategoryScience}
		e.DerivePoliticsFlag([]string{"Mars", "NASA"}, lexicon)
		assert.False(t, e.PoliticsFlag)
	})
}

func TestEvent_ZeroValue(t *testing.T) {
	var e Event
	assert.Equal(t, int64(0), e.ID)
	assert.False(t, e.HasConflict)
	assert.Nil(t, e.ConflictExplanation)
	assert.True(t, e.FirstSeen.IsZero())
}
