// internal/providers/experiences/experiences_test.go
package experiences

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"planpal/internal/models"
	"planpal/internal/providers"
)

func TestProvider(t *testing.T) {
	p := New()

	t.Run("never configured", func(t *testing.T) {
		assert.False(t, p.Configured())
	})

	t.Run("fetch always fails so the adapter uses the catalog", func(t *testing.T) {
		_, err := p.Fetch(context.Background(), providers.Query{})
		assert.Error(t, err)
	})

	t.Run("catalog normalizes with locations and tiers", func(t *testing.T) {
		got := p.Normalize("g1", p.Mock(providers.Query{}))
		require.Len(t, got, 3)

		assert.Equal(t, "Nandi Hills Sunrise Trek", got[0].Title)
		assert.Equal(t, models.SourceExperience, got[0].Source)
		assert.Equal(t, models.TierLow, got[0].Tier)
		require.NotNil(t, got[0].Location)
		assert.Equal(t, models.TierHigh, got[2].Tier)
		assert.False(t, got[0].CreatedAt.IsZero())
	})
}
