// Package workspace provides the application-level implementations of the
// workspace record store.
package workspace

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/mrtin42/dub/pkg/pg"
	"github.com/mrtin42/dub/pkg/workspace"
)

// Store is the PostgreSQL-backed workspace store. Updates are single-row
// assignments; cross-request races on the same workspace are left to the
// database's own concurrency control.
type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

const workspaceColumns = `id, name, slug, plan, stripe_id, usage_limit, links_limit,
	domains_limit, tags_limit, users_limit, billing_cycle_start, created_at, updated_at`

func (s *Store) Get(ctx context.Context, id string) (*workspace.Workspace, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE id = $1`, id)
	return s.scanWithRelations(ctx, row)
}

func (s *Store) GetByStripeID(ctx context.Context, stripeID string) (*workspace.Workspace, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT `+workspaceColumns+` FROM workspaces WHERE stripe_id = $1`, stripeID)
	return s.scanWithRelations(ctx, row)
}

func (s *Store) Update(ctx context.Context, id string, change workspace.PlanChange) (*workspace.Workspace, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE workspaces SET
			plan = $2,
			usage_limit = $3,
			links_limit = $4,
			domains_limit = $5,
			tags_limit = $6,
			users_limit = $7,
			stripe_id = COALESCE($8, stripe_id),
			billing_cycle_start = COALESCE($9, billing_cycle_start),
			updated_at = now()
		WHERE id = $1
		RETURNING `+workspaceColumns,
		id, change.Plan, change.UsageLimit, change.LinksLimit, change.DomainsLimit,
		change.TagsLimit, change.UsersLimit, change.StripeID, change.BillingCycleStart)
	return s.scanWithRelations(ctx, row)
}

func (s *Store) UpdateByStripeID(ctx context.Context, stripeID string, change workspace.PlanChange) (*workspace.Workspace, error) {
	row := s.pool.QueryRow(ctx, `
		UPDATE workspaces SET
			plan = $2,
			usage_limit = $3,
			links_limit = $4,
			domains_limit = $5,
			tags_limit = $6,
			users_limit = $7,
			updated_at = now()
		WHERE stripe_id = $1
		RETURNING `+workspaceColumns,
		stripeID, change.Plan, change.UsageLimit, change.LinksLimit, change.DomainsLimit,
		change.TagsLimit, change.UsersLimit)
	return s.scanWithRelations(ctx, row)
}

func (s *Store) scanWithRelations(ctx context.Context, row pgx.Row) (*workspace.Workspace, error) {
	var ws workspace.Workspace
	err := row.Scan(
		&ws.ID, &ws.Name, &ws.Slug, &ws.Plan, &ws.StripeID,
		&ws.UsageLimit, &ws.LinksLimit, &ws.DomainsLimit, &ws.TagsLimit, &ws.UsersLimit,
		&ws.BillingCycleStart, &ws.CreatedAt, &ws.UpdatedAt,
	)
	if err != nil {
		if pg.IsNotFoundError(err) {
			return nil, workspace.ErrNotFound
		}
		return nil, err
	}

	if ws.Users, err = s.loadUsers(ctx, ws.ID); err != nil {
		return nil, err
	}
	if ws.Domains, err = s.loadDomains(ctx, ws.ID); err != nil {
		return nil, err
	}
	return &ws, nil
}

func (s *Store) loadUsers(ctx context.Context, workspaceID string) ([]workspace.User, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT name, email FROM workspace_users WHERE workspace_id = $1 ORDER BY email`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []workspace.User
	for rows.Next() {
		var u workspace.User
		if err := rows.Scan(&u.Name, &u.Email); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (s *Store) loadDomains(ctx context.Context, workspaceID string) ([]workspace.Domain, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT slug, is_primary FROM workspace_domains WHERE workspace_id = $1 ORDER BY slug`, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var domains []workspace.Domain
	for rows.Next() {
		var d workspace.Domain
		if err := rows.Scan(&d.Slug, &d.Primary); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	return domains, rows.Err()
}

var _ workspace.Store = (*Store)(nil)
