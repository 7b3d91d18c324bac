// Package workspace defines the authoritative account entity owned by the
// record store. Plan entitlements on a workspace are mutated only through the
// billing reconciler's transitions.
package workspace

import "time"

// Workspace is the authoritative account record. StripeID is nil until the
// first completed purchase; once set it is unique and serves as the sole
// correlation key for all subsequent subscription events.
type Workspace struct {
	ID           string
	Name         string
	Slug         string
	Plan         string
	StripeID     *string
	UsageLimit   int64 // tracked clicks per billing cycle
	LinksLimit   int64
	DomainsLimit int64
	TagsLimit    int64
	UsersLimit   int64
	// BillingCycleStart is the day of month the billing cycle anchors to,
	// recorded when the first purchase completes.
	BillingCycleStart int
	CreatedAt         time.Time
	UpdatedAt         time.Time

	Domains []Domain
	Users   []User
}

// Domain is a custom short-link domain owned by a workspace.
type Domain struct {
	Slug    string
	Primary bool
}

// User is a workspace member.
type User struct {
	Name  string
	Email string
}

// UserEmails returns the addresses of all workspace members.
func (w *Workspace) UserEmails() []string {
	emails := make([]string, 0, len(w.Users))
	for _, u := range w.Users {
		if u.Email != "" {
			emails = append(emails, u.Email)
		}
	}
	return emails
}

// DomainSlugs returns the slugs of all domains owned by the workspace.
func (w *Workspace) DomainSlugs() []string {
	slugs := make([]string, 0, len(w.Domains))
	for _, d := range w.Domains {
		slugs = append(slugs, d.Slug)
	}
	return slugs
}
