package domain

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewCardNumber_Format(t *testing.T) {
	at := time.Date(2026, 3, 15, 9, 45, 30, 0, time.UTC)

	number := NewCardNumber("CAFE", at)

	assert.Regexp(t, regexp.MustCompile(`^CAFE-260315-094530-\d{4}$`), number)
}

func TestNewCardNumber_DefaultPrefix(t *testing.T) {
	number := NewCardNumber("", time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))

	assert.Regexp(t, regexp.MustCompile(`^LYL-260102-030405-\d{4}$`), number)
}

func TestTierForTotal(t *testing.T) {
	cases := []struct {
		total int
		want  CardTier
	}{
		{0, TierBronze},
		{499, TierBronze},
		{500, TierSilver},
		{1999, TierSilver},
		{2000, TierGold},
		{4999, TierGold},
		{5000, TierPlatinum},
		{100000, TierPlatinum},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, TierForTotal(tc.total), "total %d", tc.total)
	}
}

func TestMultiplierForTier(t *testing.T) {
	assert.Equal(t, 1.0, MultiplierForTier(TierBronze))
	assert.Equal(t, 1.25, MultiplierForTier(TierSilver))
	assert.Equal(t, 1.5, MultiplierForTier(TierGold))
	assert.Equal(t, 2.0, MultiplierForTier(TierPlatinum))
}

func TestPromotionIsCurrent(t *testing.T) {
	now := time.Now()
	promo := Promotion{StartsAt: now.Add(-time.Hour), EndsAt: now.Add(time.Hour)}

	assert.True(t, promo.IsCurrent(now))
	assert.False(t, promo.IsCurrent(now.Add(2*time.Hour)))
	assert.False(t, promo.IsCurrent(now.Add(-2*time.Hour)))
}
