package billing

import (
	"fmt"
	"slices"
	"strings"

	"github.com/mrtin42/dub/pkg/workspace"
)

// Unlimited indicates no limit for a resource (-1 for SQL compatibility).
const Unlimited int64 = -1

// FreePlanName is the catalog name every workspace falls back to on
// cancellation. NewCatalog guarantees a plan with this name exists.
const FreePlanName = "free"

// Plan describes a subscription tier and its entitlements. PriceIDs lists the
// provider price identifiers (monthly, yearly) that resolve to this plan.
type Plan struct {
	Name         string
	UsageLimit   int64
	LinksLimit   int64
	DomainsLimit int64
	TagsLimit    int64
	UsersLimit   int64
	PriceIDs     []string
}

// Change returns the deterministic field assignment this plan implies on a
// workspace. Plan names are stored lowercased.
func (p Plan) Change() workspace.PlanChange {
	return workspace.PlanChange{
		Plan:         strings.ToLower(p.Name),
		UsageLimit:   p.UsageLimit,
		LinksLimit:   p.LinksLimit,
		DomainsLimit: p.DomainsLimit,
		TagsLimit:    p.TagsLimit,
		UsersLimit:   p.UsersLimit,
	}
}

// Catalog is the process-wide plan table. Immutable after construction and
// safe for unsynchronized concurrent reads.
type Catalog struct {
	plans   []Plan
	byPrice map[string]int
	free    int
}

// NewCatalog validates and indexes the given plans. Each price identifier may
// map to at most one plan, and a plan named "free" must be present.
func NewCatalog(plans ...Plan) (*Catalog, error) {
	c := &Catalog{
		plans:   slices.Clone(plans),
		byPrice: make(map[string]int),
		free:    -1,
	}

	for i, plan := range c.plans {
		if strings.EqualFold(plan.Name, FreePlanName) {
			c.free = i
		}
		for _, priceID := range plan.PriceIDs {
			if _, exists := c.byPrice[priceID]; exists {
				return nil, fmt.Errorf("%w: %s", ErrDuplicatePrice, priceID)
			}
			c.byPrice[priceID] = i
		}
	}

	if c.free < 0 {
		return nil, ErrMissingFreePlan
	}

	return c, nil
}

// MustNewCatalog panics on an invalid catalog. The catalog is startup
// configuration; a broken one should prevent the process from starting.
func MustNewCatalog(plans ...Plan) *Catalog {
	c, err := NewCatalog(plans...)
	if err != nil {
		panic(err)
	}
	return c
}

// Resolve maps a provider price identifier to its plan.
func (c *Catalog) Resolve(priceID string) (Plan, bool) {
	i, ok := c.byPrice[priceID]
	if !ok {
		return Plan{}, false
	}
	return c.plans[i], true
}

// Free returns the cancellation fallback plan. Always succeeds; NewCatalog
// enforces its presence.
func (c *Catalog) Free() Plan {
	return c.plans[c.free]
}

// Plans returns a copy of the catalog in its original order.
func (c *Catalog) Plans() []Plan {
	return slices.Clone(c.plans)
}

// DefaultCatalog returns the standard plan table. Price identifiers must
// match the prices configured in the Stripe dashboard.
func DefaultCatalog() *Catalog {
	return MustNewCatalog(
		Plan{
			Name:         "free",
			UsageLimit:   1000,
			LinksLimit:   25,
			DomainsLimit: 3,
			TagsLimit:    5,
			UsersLimit:   1,
		},
		Plan{
			Name:         "pro",
			UsageLimit:   50000,
			LinksLimit:   1000,
			DomainsLimit: 10,
			TagsLimit:    25,
			UsersLimit:   5,
			PriceIDs:     []string{"price_pro_monthly", "price_pro_yearly"},
		},
		Plan{
			Name:         "business",
			UsageLimit:   250000,
			LinksLimit:   5000,
			DomainsLimit: 40,
			TagsLimit:    150,
			UsersLimit:   15,
			PriceIDs:     []string{"price_business_monthly", "price_business_yearly"},
		},
		Plan{
			Name:         "enterprise",
			UsageLimit:   Unlimited,
			LinksLimit:   Unlimited,
			DomainsLimit: Unlimited,
			TagsLimit:    Unlimited,
			UsersLimit:   Unlimited,
			PriceIDs:     []string{"price_enterprise_monthly", "price_enterprise_yearly"},
		},
	)
}
