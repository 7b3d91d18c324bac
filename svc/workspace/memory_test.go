package workspace_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrtin42/dub/pkg/workspace"
	store "github.com/mrtin42/dub/svc/workspace"
)

func seedWorkspace() *workspace.Workspace {
	stripeID := "cus_42"
	return &workspace.Workspace{
		ID:       "acct_1",
		Name:     "Acme",
		Slug:     "acme",
		Plan:     "pro",
		StripeID: &stripeID,
		Users:    []workspace.User{{Name: "Sam", Email: "sam@acme.dev"}},
		Domains:  []workspace.Domain{{Slug: "go.acme.dev", Primary: true}},
	}
}

func TestMemoryStore_Get(t *testing.T) {
	s := store.NewMemoryStore(seedWorkspace())

	ws, err := s.Get(context.Background(), "acct_1")
	require.NoError(t, err)
	assert.Equal(t, "Acme", ws.Name)

	_, err = s.Get(context.Background(), "acct_missing")
	assert.ErrorIs(t, err, workspace.ErrNotFound)
}

func TestMemoryStore_GetByStripeID(t *testing.T) {
	s := store.NewMemoryStore(seedWorkspace())

	ws, err := s.GetByStripeID(context.Background(), "cus_42")
	require.NoError(t, err)
	assert.Equal(t, "acct_1", ws.ID)

	_, err = s.GetByStripeID(context.Background(), "cus_unknown")
	assert.ErrorIs(t, err, workspace.ErrNotFound)

	_, err = s.GetByStripeID(context.Background(), "")
	assert.ErrorIs(t, err, workspace.ErrNotFound, "empty stripe id must never match")
}

func TestMemoryStore_Update(t *testing.T) {
	s := store.NewMemoryStore(seedWorkspace())

	stripeID := "cus_99"
	anchor := 15
	ws, err := s.Update(context.Background(), "acct_1", workspace.PlanChange{
		Plan:              "business",
		UsageLimit:        250000,
		LinksLimit:        5000,
		DomainsLimit:      40,
		TagsLimit:         150,
		UsersLimit:        15,
		StripeID:          &stripeID,
		BillingCycleStart: &anchor,
	})
	require.NoError(t, err)
	assert.Equal(t, "business", ws.Plan)
	require.NotNil(t, ws.StripeID)
	assert.Equal(t, "cus_99", *ws.StripeID)
	assert.Equal(t, 15, ws.BillingCycleStart)
	assert.NotEmpty(t, ws.Users, "updates must return the nested collections")
}

func TestMemoryStore_UpdateByStripeID(t *testing.T) {
	s := store.NewMemoryStore(seedWorkspace())

	ws, err := s.UpdateByStripeID(context.Background(), "cus_42", workspace.PlanChange{
		Plan: "free", UsageLimit: 1000, LinksLimit: 25, DomainsLimit: 3, TagsLimit: 5, UsersLimit: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, "free", ws.Plan)
	require.NotNil(t, ws.StripeID, "nil StripeID in the change must leave the stored value untouched")
	assert.Equal(t, "cus_42", *ws.StripeID)
}

func TestMemoryStore_ReturnsCopies(t *testing.T) {
	s := store.NewMemoryStore(seedWorkspace())

	first, err := s.Get(context.Background(), "acct_1")
	require.NoError(t, err)
	first.Plan = "mutated"
	first.Users[0].Email = "hax@example.com"

	second, err := s.Get(context.Background(), "acct_1")
	require.NoError(t, err)
	assert.Equal(t, "pro", second.Plan)
	assert.Equal(t, "sam@acme.dev", second.Users[0].Email)
}
