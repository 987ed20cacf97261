package service

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/lironhefcode/stock-market/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeGroupStore is an in-memory domain.GroupStore.
type fakeGroupStore struct {
	mu     sync.Mutex
	groups map[string]domain.Group // by ID
}

func newFakeGroupStore() *fakeGroupStore {
	return &fakeGroupStore{groups: make(map[string]domain.Group)}
}

func (s *fakeGroupStore) Create(ctx context.Context, g domain.Group) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.groups {
		if existing.InviteCode == g.InviteCode {
			return domain.ErrAlreadyExists
		}
	}
	s.groups[g.ID] = g
	return nil
}

func (s *fakeGroupStore) GetByID(ctx context.Context, id string) (domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[id]
	if !ok {
		return domain.Group{}, domain.ErrGroupNotFound
	}
	return g, nil
}

func (s *fakeGroupStore) GetByInviteCode(ctx context.Context, code string) (domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.groups {
		if g.InviteCode == code {
			return g, nil
		}
	}
	return domain.Group{}, domain.ErrGroupNotFound
}

func (s *fakeGroupStore) InviteCodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.GetByInviteCode(ctx, code)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (s *fakeGroupStore) List(ctx context.Context) ([]domain.Group, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Group, 0, len(s.groups))
	for _, g := range s.groups {
		out = append(out, g)
	}
	return out, nil
}

func (s *fakeGroupStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[id]; !ok {
		return domain.ErrGroupNotFound
	}
	delete(s.groups, id)
	return nil
}

// fakeMemberStore is an in-memory domain.MemberStore enforcing the
// one-group-per-user rule the way the unique index does. Members are kept in
// insertion order so ListByGroup matches the store's join-order guarantee.
type fakeMemberStore struct {
	mu      sync.Mutex
	members []domain.Member
}

func newFakeMemberStore() *fakeMemberStore {
	return &fakeMemberStore{}
}

func (s *fakeMemberStore) Create(ctx context.Context, m domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.members {
		if existing.UserID == m.UserID {
			return domain.ErrAlreadyMember
		}
	}
	s.members = append(s.members, m)
	return nil
}

func (s *fakeMemberStore) GetByUserID(ctx context.Context, userID string) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.UserID == userID {
			return m, nil
		}
	}
	return domain.Member{}, domain.ErrNotAMember
}

func (s *fakeMemberStore) ListByGroup(ctx context.Context, groupID string) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Member
	for _, m := range s.members {
		if m.GroupID == groupID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (s *fakeMemberStore) ReplacePositions(ctx context.Context, memberID string, positions []domain.Position) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.members {
		if m.ID == memberID {
			s.members[i].Positions = positions
			return nil
		}
	}
	return domain.ErrNotFound
}

func (s *fakeMemberStore) Delete(ctx context.Context, groupID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, m := range s.members {
		if m.GroupID == groupID && m.UserID == userID {
			s.members = append(s.members[:i], s.members[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotAMember
}

// fakeBus records published events.
type fakeBus struct {
	mu        sync.Mutex
	published []string // channel:payload
}

func (b *fakeBus) Publish(ctx context.Context, channel string, payload []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.published = append(b.published, channel+":"+string(payload))
	return nil
}

func (b *fakeBus) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	ch := make(chan []byte)
	close(ch)
	return ch, nil
}

// fakeProvider serves quotes from a fixed map and counts calls.
type fakeProvider struct {
	mu     sync.Mutex
	quotes map[string]domain.Quote
	calls  int
}

func (p *fakeProvider) Quote(ctx context.Context, symbol string) (domain.Quote, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls++
	q, ok := p.quotes[symbol]
	if !ok {
		return domain.Quote{}, domain.ErrNotFound
	}
	return q, nil
}

// fakeQuoteCache is an in-memory domain.QuoteCache.
type fakeQuoteCache struct {
	mu     sync.Mutex
	quotes map[string]domain.Quote
}

func newFakeQuoteCache() *fakeQuoteCache {
	return &fakeQuoteCache{quotes: make(map[string]domain.Quote)}
}

func (c *fakeQuoteCache) SetQuote(ctx context.Context, q domain.Quote) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quotes[q.Symbol] = q
	return nil
}

func (c *fakeQuoteCache) GetQuotes(ctx context.Context, symbols []string) (map[string]domain.Quote, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]domain.Quote)
	for _, sym := range symbols {
		if q, ok := c.quotes[sym]; ok {
			out[sym] = q
		}
	}
	return out, nil
}

// fakeNotifier records notifications.
type fakeNotifier struct {
	mu    sync.Mutex
	sent  []string
	event string
}

func (n *fakeNotifier) Notify(ctx context.Context, event, title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.event = event
	n.sent = append(n.sent, title+"\n"+message)
	return nil
}

// fakeArchiver records archived leaderboards.
type fakeArchiver struct {
	mu       sync.Mutex
	archived []string // group IDs
}

func (a *fakeArchiver) ArchiveLeaderboard(ctx context.Context, lb domain.Leaderboard) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.archived = append(a.archived, lb.Group.ID)
	return "snapshots/" + lb.Group.ID + "/test.json", nil
}

// fakeLocks hands out locks and can simulate contention.
type fakeLocks struct {
	held bool
}

func (l *fakeLocks) Acquire(ctx context.Context, key string, ttl time.Duration) (func(), error) {
	if l.held {
		return nil, domain.ErrLockHeld
	}
	l.held = true
	return func() { l.held = false }, nil
}
