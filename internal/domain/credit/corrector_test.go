package credit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCorrect(t *testing.T) {
	tests := []struct {
		name         string
		score        int
		rate         float64
		wantApproved bool
		wantRate     float64
	}{
		{"preferred boundary", 80, 10.0, true, 9.0},
		{"standard upper", 79, 10.0, true, 10.0},
		{"standard boundary", 50, 10.0, true, 10.0},
		{"declined upper", 49, 10.0, false, 12.0},
		{"declined floor", 0, 10.0, false, 12.0},
		{"preferred never below zero", 100, 0.5, true, 0.0},
		{"preferred at zero", 95, 0, true, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			approved, rate := Correct(tt.score, tt.rate)
			assert.Equal(t, tt.wantApproved, approved)
			assert.InDelta(t, tt.wantRate, rate, 1e-9)
		})
	}
}

func TestCorrectRaw(t *testing.T) {
	approved, rate := CorrectRaw(60, "not a rate")
	assert.True(t, approved)
	assert.Equal(t, 0.0, rate)

	approved, rate = CorrectRaw(10, nil)
	assert.False(t, approved)
	assert.Equal(t, 2.0, rate)

	approved, rate = CorrectRaw(85, "12.5")
	assert.True(t, approved)
	assert.Equal(t, 11.5, rate)
}

func TestTierFor(t *testing.T) {
	assert.Equal(t, TierPreferred, TierFor(100))
	assert.Equal(t, TierPreferred, TierFor(80))
	assert.Equal(t, TierStandard, TierFor(79))
	assert.Equal(t, TierStandard, TierFor(50))
	assert.Equal(t, TierDeclined, TierFor(49))
}
