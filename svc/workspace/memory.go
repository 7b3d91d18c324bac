package workspace

import (
	"context"
	"sync"
	"time"

	"github.com/mrtin42/dub/pkg/workspace"
)

// MemoryStore is an in-memory workspace store for tests and local runs
// without a database.
type MemoryStore struct {
	mu         sync.RWMutex
	workspaces map[string]*workspace.Workspace
}

func NewMemoryStore(seed ...*workspace.Workspace) *MemoryStore {
	s := &MemoryStore{workspaces: make(map[string]*workspace.Workspace)}
	for _, ws := range seed {
		s.workspaces[ws.ID] = cloneWorkspace(ws)
	}
	return s
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*workspace.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.workspaces[id]
	if !ok {
		return nil, workspace.ErrNotFound
	}
	return cloneWorkspace(ws), nil
}

func (s *MemoryStore) GetByStripeID(ctx context.Context, stripeID string) (*workspace.Workspace, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws := s.findByStripeID(stripeID)
	if ws == nil {
		return nil, workspace.ErrNotFound
	}
	return cloneWorkspace(ws), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, change workspace.PlanChange) (*workspace.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.workspaces[id]
	if !ok {
		return nil, workspace.ErrNotFound
	}
	ws.Apply(change, time.Now().UTC())
	return cloneWorkspace(ws), nil
}

func (s *MemoryStore) UpdateByStripeID(ctx context.Context, stripeID string, change workspace.PlanChange) (*workspace.Workspace, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.findByStripeID(stripeID)
	if ws == nil {
		return nil, workspace.ErrNotFound
	}
	ws.Apply(change, time.Now().UTC())
	return cloneWorkspace(ws), nil
}

func (s *MemoryStore) findByStripeID(stripeID string) *workspace.Workspace {
	if stripeID == "" {
		return nil
	}
	for _, ws := range s.workspaces {
		if ws.StripeID != nil && *ws.StripeID == stripeID {
			return ws
		}
	}
	return nil
}

func cloneWorkspace(ws *workspace.Workspace) *workspace.Workspace {
	clone := *ws
	if ws.StripeID != nil {
		id := *ws.StripeID
		clone.StripeID = &id
	}
	clone.Domains = append([]workspace.Domain(nil), ws.Domains...)
	clone.Users = append([]workspace.User(nil), ws.Users...)
	return &clone
}

var _ workspace.Store = (*MemoryStore)(nil)
