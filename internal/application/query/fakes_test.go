package query

import (
	"context"
	"errors"
	"sort"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/leaderboard"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/quote"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// Minimal test doubles for the read side. State is seeded up front;
// none of them are safe for concurrent mutation, which the tests
// never need.

// rankBoard orders seeded entries by the canonical ordering contract and
// numbers them, the way the store does before handing a view out.
func rankBoard(entries []leaderboard.Entry) []leaderboard.Entry {
	sort.SliceStable(entries, func(i, j int) bool {
		return leaderboard.Less(entries[i], entries[j])
	})
	leaderboard.AssignRanks(entries)
	return entries
}

type fakeBoards struct {
	global      []leaderboard.Entry
	friends     map[string][]leaderboard.Entry
	groups      map[string][]leaderboard.Entry
	globalCalls int
}

func (f *fakeBoards) Global(_ context.Context, limit int) ([]leaderboard.Entry, error) {
	f.globalCalls++
	if limit > len(f.global) {
		limit = len(f.global)
	}
	return f.global[:limit], nil
}

func (f *fakeBoards) Friends(_ context.Context, accountID string, limit int) ([]leaderboard.Entry, error) {
	return f.friends[accountID], nil
}

func (f *fakeBoards) Group(_ context.Context, groupID string, limit int) ([]leaderboard.Entry, error) {
	return f.groups[groupID], nil
}

func (f *fakeBoards) GlobalRank(_ context.Context, accountID string) (int, error) {
	for _, e := range f.global {
		if e.AccountID == accountID {
			return e.Rank, nil
		}
	}
	return 0, nil
}

var errBoardMiss = errors.New("view not cached")

type fakeBoardCache struct {
	entries []leaderboard.Entry
	sets    int
}

func (f *fakeBoardCache) GetGlobal(_ context.Context, limit int) ([]leaderboard.Entry, error) {
	if f.entries == nil || len(f.entries) < limit {
		return nil, errBoardMiss
	}
	return f.entries[:limit], nil
}

func (f *fakeBoardCache) SetGlobal(_ context.Context, entries []leaderboard.Entry) error {
	f.entries = entries
	f.sets++
	return nil
}

func (f *fakeBoardCache) Invalidate(_ context.Context) error {
	f.entries = nil
	return nil
}

// fakeMemberships implements only the membership lookup the
// leaderboard path uses; everything else is unreachable.
type fakeMemberships struct {
	members map[string]map[string]bool // group -> accounts
}

func (f *fakeMemberships) GetMembership(_ context.Context, groupID, accountID string) (*social.Membership, error) {
	if f.members[groupID][accountID] {
		return &social.Membership{GroupID: groupID, AccountID: accountID, Role: social.RoleMember}, nil
	}
	return nil, social.ErrNotMember
}

func (f *fakeMemberships) CreateWithAdmin(context.Context, *social.Group) error {
	panic("not used")
}

func (f *fakeMemberships) GetByID(context.Context, string) (*social.Group, error) {
	panic("not used")
}

func (f *fakeMemberships) GetByCode(context.Context, social.GroupCode) (*social.Group, error) {
	panic("not used")
}

func (f *fakeMemberships) Join(context.Context, string, string) (*social.Membership, error) {
	panic("not used")
}

func (f *fakeMemberships) Leave(context.Context, string, string) error {
	panic("not used")
}

func (f *fakeMemberships) ListMembers(context.Context, string) ([]*social.Membership, error) {
	panic("not used")
}

func (f *fakeMemberships) ListPublic(context.Context, int, int) ([]*social.Group, error) {
	panic("not used")
}

func (f *fakeMemberships) ListByAccount(context.Context, string) ([]*social.Group, error) {
	panic("not used")
}

func (f *fakeMemberships) MemberEdgeCount(context.Context, string) (int, error) {
	panic("not used")
}

type fakeQuotes struct {
	catalog []*quote.Quote
}

func (f *fakeQuotes) Count(_ context.Context) (int, error) {
	return len(f.catalog), nil
}

func (f *fakeQuotes) GetByIndex(_ context.Context, index int) (*quote.Quote, error) {
	if index < 0 || index >= len(f.catalog) {
		return nil, quote.ErrQuoteNotFound
	}
	return f.catalog[index], nil
}

func (f *fakeQuotes) Add(_ context.Context, q *quote.Quote) error {
	f.catalog = append(f.catalog, q)
	return nil
}

type fakeQuoteCache struct {
	byDay map[int]*quote.Quote
}

func (f *fakeQuoteCache) GetDaily(_ context.Context, dayOrdinal int) (*quote.Quote, error) {
	if q, ok := f.byDay[dayOrdinal]; ok {
		return q, nil
	}
	return nil, quote.ErrQuoteNotFound
}

func (f *fakeQuoteCache) SetDaily(_ context.Context, dayOrdinal int, q *quote.Quote) error {
	if f.byDay == nil {
		f.byDay = make(map[int]*quote.Quote)
	}
	f.byDay[dayOrdinal] = q
	return nil
}
