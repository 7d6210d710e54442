package command

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/chrysalis-app/mindfulness-hub/internal/domain/account"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/session"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/shared"
	"github.com/chrysalis-app/mindfulness-hub/internal/domain/social"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory test doubles. They mirror the persistence contracts closely
// enough to exercise the handlers' orchestration without a database.
// ─────────────────────────────────────────────────────────────────────────────

type fakeAccounts struct {
	mu        sync.Mutex
	byID      map[string]*account.Account
	createErr error
}

func newFakeAccounts(accts ...*account.Account) *fakeAccounts {
	f := &fakeAccounts{byID: make(map[string]*account.Account)}
	for _, a := range accts {
		f.byID[a.ID] = a
	}
	return f
}

func (f *fakeAccounts) Create(_ context.Context, acct *account.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == acct.Email {
			return account.ErrAccountAlreadyExists
		}
	}
	f.byID[acct.ID] = acct.Clone()
	return nil
}

func (f *fakeAccounts) GetByID(_ context.Context, id string) (*account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.byID[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	return acct.Clone(), nil
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email account.Email) (*account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acct := range f.byID {
		if acct.Email == email {
			return acct.Clone(), nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (f *fakeAccounts) GetByIDs(_ context.Context, ids []string) ([]*account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*account.Account, 0, len(ids))
	for _, id := range ids {
		if acct, ok := f.byID[id]; ok {
			out = append(out, acct.Clone())
		}
	}
	return out, nil
}

func (f *fakeAccounts) UpdateProfile(_ context.Context, id string, update account.ProfileUpdate) (*account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	acct, ok := f.byID[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	if err := acct.UpdateProfile(update); err != nil {
		return nil, err
	}
	return acct.Clone(), nil
}

func (f *fakeAccounts) Exists(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.byID[id]
	return ok, nil
}

func (f *fakeAccounts) ExistsByEmail(_ context.Context, email account.Email) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, acct := range f.byID {
		if acct.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeAccounts) Count(_ context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.byID), nil
}

type fakeLedger struct {
	mu       sync.Mutex
	accounts *fakeAccounts
	sessions map[string]*session.Session
}

func newFakeLedger(accounts *fakeAccounts, sessions ...*session.Session) *fakeLedger {
	f := &fakeLedger{accounts: accounts, sessions: make(map[string]*session.Session)}
	for _, s := range sessions {
		f.sessions[s.ID] = s
	}
	return f
}

func (f *fakeLedger) CreateActive(_ context.Context, sess *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.accounts.byID[sess.AccountID]; !ok {
		return account.ErrAccountNotFound
	}
	f.sessions[sess.ID] = sess
	return nil
}

func (f *fakeLedger) GetByID(_ context.Context, id string) (*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	sess, ok := f.sessions[id]
	if !ok {
		return nil, session.ErrSessionNotFound
	}
	copied := *sess
	return &copied, nil
}

func (f *fakeLedger) UpdateState(_ context.Context, sess *session.Session) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.sessions[sess.ID]
	if !ok {
		return session.ErrSessionNotFound
	}
	if stored.IsCompleted() {
		return session.ErrAlreadyCompleted
	}
	copied := *sess
	f.sessions[sess.ID] = &copied
	return nil
}

// Complete mimics the transactional contract: the account is "locked",
// fn mutates it and returns the completed session, and both are stored
// together only when fn succeeds.
func (f *fakeLedger) Complete(_ context.Context, accountID string, fn session.CompletionFunc) (*session.Session, *account.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	stored, ok := f.accounts.byID[accountID]
	if !ok {
		return nil, nil, account.ErrAccountNotFound
	}

	locked := stored.Clone()
	completed, err := fn(locked)
	if err != nil {
		return nil, nil, err
	}

	if existing, ok := f.sessions[completed.ID]; ok && existing.IsCompleted() {
		return nil, nil, session.ErrAlreadyCompleted
	}

	copied := *completed
	f.sessions[completed.ID] = &copied
	f.accounts.byID[accountID] = locked
	return &copied, locked.Clone(), nil
}

func (f *fakeLedger) ListCompletedByAccount(_ context.Context, accountID string, limit, offset int) ([]*session.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*session.Session
	for _, s := range f.sessions {
		if s.AccountID == accountID && s.IsCompleted() {
			copied := *s
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeLedger) CountCompletedByAccount(_ context.Context, accountID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, s := range f.sessions {
		if s.AccountID == accountID && s.IsCompleted() {
			n++
		}
	}
	return n, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []shared.Event
	err    error
}

func (f *fakePublisher) Publish(_ context.Context, event shared.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, event)
	return nil
}

func (f *fakePublisher) published() []shared.Event {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]shared.Event(nil), f.events...)
}

// fakeHasher marks hashes with a prefix so Verify can check the pair
// without real bcrypt work.
type fakeHasher struct{}

func (fakeHasher) Hash(password string) (string, error) {
	return "hashed:" + password, nil
}

func (fakeHasher) Verify(hash, password string) error {
	if hash != "hashed:"+password {
		return fmt.Errorf("credential mismatch")
	}
	return nil
}

type fakeTokens struct{}

func (fakeTokens) Issue(accountID string) (string, error) {
	return "token-for-" + accountID, nil
}

type fakeFriendships struct {
	mu   sync.Mutex
	byID map[string]*social.Friendship
}

func newFakeFriendships() *fakeFriendships {
	return &fakeFriendships{byID: make(map[string]*social.Friendship)}
}

func (f *fakeFriendships) CreateRequest(_ context.Context, edge *social.Friendship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.byID {
		if existing.Involves(edge.UserID1) && existing.Involves(edge.UserID2) {
			return social.ErrFriendshipExists
		}
	}
	copied := *edge
	f.byID[edge.ID] = &copied
	return nil
}

func (f *fakeFriendships) GetByID(_ context.Context, id string) (*social.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	edge, ok := f.byID[id]
	if !ok {
		return nil, social.ErrFriendshipNotFound
	}
	copied := *edge
	return &copied, nil
}

func (f *fakeFriendships) GetBetween(_ context.Context, a, b string) (*social.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, edge := range f.byID {
		if edge.Involves(a) && edge.Involves(b) {
			copied := *edge
			return &copied, nil
		}
	}
	return nil, social.ErrFriendshipNotFound
}

func (f *fakeFriendships) Accept(_ context.Context, edge *social.Friendship) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored, ok := f.byID[edge.ID]
	if !ok || stored.Status != social.FriendshipPending {
		return social.ErrRequestNotFound
	}
	copied := *edge
	f.byID[edge.ID] = &copied
	return nil
}

func (f *fakeFriendships) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return social.ErrFriendshipNotFound
	}
	delete(f.byID, id)
	return nil
}

func (f *fakeFriendships) ListFriendIDs(_ context.Context, accountID string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, edge := range f.byID {
		if edge.Status != social.FriendshipAccepted || !edge.Involves(accountID) {
			continue
		}
		if edge.UserID1 == accountID {
			out = append(out, edge.UserID2)
		} else {
			out = append(out, edge.UserID1)
		}
	}
	return out, nil
}

func (f *fakeFriendships) ListPendingReceived(_ context.Context, accountID string) ([]*social.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*social.Friendship
	for _, edge := range f.byID {
		if edge.Status == social.FriendshipPending && edge.UserID2 == accountID {
			copied := *edge
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeFriendships) ListPendingSent(_ context.Context, accountID string) ([]*social.Friendship, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*social.Friendship
	for _, edge := range f.byID {
		if edge.Status == social.FriendshipPending && edge.UserID1 == accountID {
			copied := *edge
			out = append(out, &copied)
		}
	}
	return out, nil
}

type fakeGroups struct {
	mu          sync.Mutex
	byID        map[string]*social.Group
	memberships map[string][]*social.Membership // keyed by group ID
	takenCodes  map[social.GroupCode]bool
}

func newFakeGroups() *fakeGroups {
	return &fakeGroups{
		byID:        make(map[string]*social.Group),
		memberships: make(map[string][]*social.Membership),
		takenCodes:  make(map[social.GroupCode]bool),
	}
}

func (f *fakeGroups) CreateWithAdmin(_ context.Context, g *social.Group) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.takenCodes[g.Code] {
		return social.ErrGroupCodeTaken
	}
	f.takenCodes[g.Code] = true
	copied := *g
	copied.MemberCount = 1
	f.byID[g.ID] = &copied
	f.memberships[g.ID] = []*social.Membership{{
		GroupID:   g.ID,
		AccountID: g.CreatorID,
		Role:      social.RoleAdmin,
		JoinedAt:  g.CreatedAt,
	}}
	return nil
}

func (f *fakeGroups) GetByID(_ context.Context, id string) (*social.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.byID[id]
	if !ok {
		return nil, social.ErrGroupNotFound
	}
	copied := *g
	return &copied, nil
}

func (f *fakeGroups) GetByCode(_ context.Context, code social.GroupCode) (*social.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, g := range f.byID {
		if strings.EqualFold(string(g.Code), string(code)) {
			copied := *g
			return &copied, nil
		}
	}
	return nil, social.ErrGroupNotFound
}

func (f *fakeGroups) Join(_ context.Context, groupID, accountID string) (*social.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.byID[groupID]
	if !ok {
		return nil, social.ErrGroupNotFound
	}
	for _, m := range f.memberships[groupID] {
		if m.AccountID == accountID {
			return nil, social.ErrAlreadyMember
		}
	}
	if g.MemberCount >= g.MaxMembers {
		return nil, social.ErrGroupFull
	}
	m := &social.Membership{GroupID: groupID, AccountID: accountID, Role: social.RoleMember}
	f.memberships[groupID] = append(f.memberships[groupID], m)
	g.MemberCount++
	copied := *m
	return &copied, nil
}

func (f *fakeGroups) Leave(_ context.Context, groupID, accountID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	g, ok := f.byID[groupID]
	if !ok {
		return social.ErrGroupNotFound
	}
	members := f.memberships[groupID]
	idx := -1
	for i, m := range members {
		if m.AccountID == accountID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return social.ErrNotMember
	}
	leaver := members[idx]
	members = append(members[:idx], members[idx+1:]...)
	if len(members) == 0 {
		delete(f.byID, groupID)
		delete(f.memberships, groupID)
		return nil
	}
	f.memberships[groupID] = members
	g.MemberCount--
	if leaver.Role == social.RoleAdmin {
		hasAdmin := false
		for _, m := range members {
			if m.Role == social.RoleAdmin {
				hasAdmin = true
				break
			}
		}
		if !hasAdmin {
			members[0].Role = social.RoleAdmin
		}
	}
	return nil
}

func (f *fakeGroups) GetMembership(_ context.Context, groupID, accountID string) (*social.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.memberships[groupID] {
		if m.AccountID == accountID {
			copied := *m
			return &copied, nil
		}
	}
	return nil, social.ErrNotMember
}

func (f *fakeGroups) ListMembers(_ context.Context, groupID string) ([]*social.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	members := f.memberships[groupID]
	out := make([]*social.Membership, 0, len(members))
	for _, m := range members {
		copied := *m
		out = append(out, &copied)
	}
	return out, nil
}

func (f *fakeGroups) ListPublic(_ context.Context, limit, offset int) ([]*social.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*social.Group
	for _, g := range f.byID {
		if g.IsPublic {
			copied := *g
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (f *fakeGroups) ListByAccount(_ context.Context, accountID string) ([]*social.Group, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*social.Group
	for groupID, members := range f.memberships {
		for _, m := range members {
			if m.AccountID == accountID {
				copied := *f.byID[groupID]
				out = append(out, &copied)
			}
		}
	}
	return out, nil
}

func (f *fakeGroups) MemberEdgeCount(_ context.Context, groupID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.memberships[groupID]), nil
}
