package billing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrtin42/dub/pkg/billing"
)

func TestNewCatalog(t *testing.T) {
	t.Run("requires a free plan", func(t *testing.T) {
		_, err := billing.NewCatalog(
			billing.Plan{Name: "pro", PriceIDs: []string{"price_pro_monthly"}},
		)
		assert.ErrorIs(t, err, billing.ErrMissingFreePlan)
	})

	t.Run("rejects duplicate price ids", func(t *testing.T) {
		_, err := billing.NewCatalog(
			billing.Plan{Name: "free"},
			billing.Plan{Name: "pro", PriceIDs: []string{"price_x"}},
			billing.Plan{Name: "business", PriceIDs: []string{"price_x"}},
		)
		assert.ErrorIs(t, err, billing.ErrDuplicatePrice)
	})
}

func TestCatalog_Resolve(t *testing.T) {
	catalog := billing.DefaultCatalog()

	t.Run("known price", func(t *testing.T) {
		plan, ok := catalog.Resolve("price_pro_monthly")
		require.True(t, ok)
		assert.Equal(t, "pro", plan.Name)
		assert.Equal(t, int64(50000), plan.UsageLimit)
	})

	t.Run("yearly price maps to the same plan", func(t *testing.T) {
		monthly, ok := catalog.Resolve("price_pro_monthly")
		require.True(t, ok)
		yearly, ok := catalog.Resolve("price_pro_yearly")
		require.True(t, ok)
		assert.Equal(t, monthly.Name, yearly.Name)
	})

	t.Run("unknown price", func(t *testing.T) {
		_, ok := catalog.Resolve("price_unknown")
		assert.False(t, ok)
	})
}

func TestCatalog_Free(t *testing.T) {
	free := billing.DefaultCatalog().Free()
	assert.Equal(t, billing.FreePlanName, free.Name)
	assert.Empty(t, free.PriceIDs, "the free tier has no provider price")
}

func TestPlan_Change(t *testing.T) {
	plan := billing.Plan{
		Name:         "Pro",
		UsageLimit:   50000,
		LinksLimit:   1000,
		DomainsLimit: 10,
		TagsLimit:    25,
		UsersLimit:   5,
	}

	change := plan.Change()
	assert.Equal(t, "pro", change.Plan, "plan names are stored lowercased")
	assert.Equal(t, int64(50000), change.UsageLimit)
	assert.Nil(t, change.StripeID)
	assert.Nil(t, change.BillingCycleStart)
}
