package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"FRD_airdrop_bot/internal/model"
	"FRD_airdrop_bot/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory stand-in for the Postgres repository with the
// same atomicity guarantees: create+increment land as a pair under one
// lock, duplicate keys are rejected, duplicate credentials are rejected.
type memStore struct {
	mu           sync.Mutex
	participants map[int64]*model.Participant
	credentials  map[int64]map[model.CredentialKind]string
}

func newMemStore() *memStore {
	return &memStore{
		participants: make(map[int64]*model.Participant),
		credentials:  make(map[int64]map[model.CredentialKind]string),
	}
}

func (m *memStore) GetParticipant(_ context.Context, id int64) (*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memStore) CreateParticipant(_ context.Context, p *model.Participant) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.participants[p.TelegramID]; ok {
		return repository.ErrAlreadyExists
	}
	if p.ReferrerID != nil {
		inviter, ok := m.participants[*p.ReferrerID]
		if !ok {
			return repository.ErrNotFound
		}
		inviter.Referrals++
	}
	cp := *p
	m.participants[p.TelegramID] = &cp
	return nil
}

func (m *memStore) UpdateInviter(_ context.Context, id, inviterID int64, link string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.ReferrerID = &inviterID
	p.ReferralLink = link
	return nil
}

func (m *memStore) IncrementReferralCount(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.participants[id]
	if !ok {
		return repository.ErrNotFound
	}
	p.Referrals++
	return nil
}

func (m *memStore) ListChildren(_ context.Context, inviterID int64) ([]*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Participant
	for _, p := range m.participants {
		if p.ReferrerID != nil && *p.ReferrerID == inviterID && p.TelegramID != inviterID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memStore) ListParticipants(_ context.Context) ([]*model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*model.Participant, 0, len(m.participants))
	for _, p := range m.participants {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memStore) ClearAll(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.participants = make(map[int64]*model.Participant)
	m.credentials = make(map[int64]map[model.CredentialKind]string)
	return nil
}

func (m *memStore) InsertCredential(_ context.Context, c *model.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds, ok := m.credentials[c.ParticipantID]
	if !ok {
		kinds = make(map[model.CredentialKind]string)
		m.credentials[c.ParticipantID] = kinds
	}
	if _, ok := kinds[c.Kind]; ok {
		return repository.ErrDuplicateCredential
	}
	kinds[c.Kind] = c.Value
	return nil
}

func (m *memStore) ListCredentials(_ context.Context, kind model.CredentialKind) ([]*model.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Credential
	for id, kinds := range m.credentials {
		if v, ok := kinds[kind]; ok {
			out = append(out, &model.Credential{
				ParticipantID: id,
				Kind:          kind,
				Value:         v,
				SubmittedAt:   time.Now(),
			})
		}
	}
	return out, nil
}

func (m *memStore) ListSubmittedKinds(_ context.Context, id int64) ([]model.CredentialKind, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []model.CredentialKind
	for k := range m.credentials[id] {
		out = append(out, k)
	}
	return out, nil
}

func ptr(v int64) *int64 { return &v }

func TestRegisterReferral_FirstEntryViaLink(t *testing.T) {
	store := newMemStore()
	svc := NewReferralService(store, "FRDAirdropBot", nil)
	ctx := context.Background()

	a, err := svc.RegisterReferral(ctx, 100, "alice", nil)
	require.NoError(t, err)
	assert.True(t, a.Created)
	assert.Nil(t, a.Participant.ReferrerID)
	assert.Equal(t, 0, a.Participant.Referrals)
	assert.Equal(t, "https://t.me/FRDAirdropBot?start=100", a.Participant.ReferralLink)

	b, err := svc.RegisterReferral(ctx, 200, "bob", ptr(100))
	require.NoError(t, err)
	assert.True(t, b.Created)
	require.NotNil(t, b.Participant.ReferrerID)
	assert.Equal(t, int64(100), *b.Participant.ReferrerID)
	assert.Equal(t, "https://t.me/FRDAirdropBot?start=200", b.Participant.ReferralLink)

	count, err := svc.CountDirect(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	children, err := svc.ListChildren(ctx, 100)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, int64(200), children[0].TelegramID)
}

func TestRegisterReferral_UnknownInviterMakesOrphan(t *testing.T) {
	store := newMemStore()
	svc := NewReferralService(store, "FRDAirdropBot", nil)

	res, err := svc.RegisterReferral(context.Background(), 300, "carol", ptr(999))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Nil(t, res.Participant.ReferrerID)
}

func TestRegisterReferral_SelfReferralIgnored(t *testing.T) {
	store := newMemStore()
	svc := NewReferralService(store, "FRDAirdropBot", nil)

	res, err := svc.RegisterReferral(context.Background(), 300, "carol", ptr(300))
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Nil(t, res.Participant.ReferrerID)
}

func TestRegisterReferral_ReentryNeverRecounts(t *testing.T) {
	store := newMemStore()
	svc := NewReferralService(store, "FRDAirdropBot", nil)
	ctx := context.Background()

	_, err := svc.RegisterReferral(ctx, 100, "alice", nil)
	require.NoError(t, err)
	_, err = svc.RegisterReferral(ctx, 101, "anna", nil)
	require.NoError(t, err)

	_, err = svc.RegisterReferral(ctx, 200, "bob", ptr(100))
	require.NoError(t, err)

	// Bob clicks Alice's link again, then Anna's. The pointer moves, the
	// counters never do.
	for i := 0; i < 3; i++ {
		res, err := svc.RegisterReferral(ctx, 200, "bob", ptr(100))
		require.NoError(t, err)
		assert.False(t, res.Created)
	}
	res, err := svc.RegisterReferral(ctx, 200, "bob", ptr(101))
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, int64(101), *res.Participant.ReferrerID)

	countAlice, err := svc.CountDirect(ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, countAlice)

	countAnna, err := svc.CountDirect(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, 0, countAnna)
}

func TestRegisterReferral_ConcurrentInviteesCountExactly(t *testing.T) {
	store := newMemStore()
	svc := NewReferralService(store, "FRDAirdropBot", nil)
	ctx := context.Background()

	_, err := svc.RegisterReferral(ctx, 1, "inviter", nil)
	require.NoError(t, err)

	const n = 64
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := svc.RegisterReferral(ctx, int64(1000+i), fmt.Sprintf("user%d", i), ptr(1))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	count, err := svc.CountDirect(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, n, count)
}

func TestRegisterReferral_ConcurrentSameIDCountsOnce(t *testing.T) {
	store := newMemStore()
	svc := NewReferralService(store, "FRDAirdropBot", nil)
	ctx := context.Background()

	_, err := svc.RegisterReferral(ctx, 1, "inviter", nil)
	require.NoError(t, err)

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.RegisterReferral(ctx, 42, "dup", ptr(1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := svc.CountDirect(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestRegisterReferral_InviterNeverSelfOrDangling(t *testing.T) {
	store := newMemStore()
	svc := NewReferralService(store, "FRDAirdropBot", nil)
	ctx := context.Background()

	_, err := svc.RegisterReferral(ctx, 1, "inviter", nil)
	require.NoError(t, err)
	for i := int64(2); i < 20; i++ {
		inviter := ptr(i - 1)
		if i%5 == 0 {
			inviter = ptr(i) // self, must be dropped
		}
		if i%7 == 0 {
			inviter = ptr(10_000 + i) // unknown, must be dropped
		}
		_, err := svc.RegisterReferral(ctx, i, "u", inviter)
		require.NoError(t, err)
	}

	all, err := svc.ListParticipants(ctx)
	require.NoError(t, err)
	for _, p := range all {
		if p.ReferrerID == nil {
			continue
		}
		assert.NotEqual(t, p.TelegramID, *p.ReferrerID)
		_, err := svc.GetParticipant(ctx, *p.ReferrerID)
		assert.NoError(t, err)
	}
}

func TestCredentialSubmit_Idempotent(t *testing.T) {
	store := newMemStore()
	svc := NewCredentialService(store)
	ctx := context.Background()

	wallet := "1A1zP1eP5QGefi2DMPTfTL5SLmv7Divf99"
	require.NoError(t, svc.Submit(ctx, 200, model.CredentialWallet, wallet))

	err := svc.Submit(ctx, 200, model.CredentialWallet, "9z8y7x6w5v4u3t2s1r0q9p8o7n6m5l4k3j")
	assert.ErrorIs(t, err, ErrAlreadySubmitted)

	// First value retained unchanged.
	creds, err := store.ListCredentials(ctx, model.CredentialWallet)
	require.NoError(t, err)
	require.Len(t, creds, 1)
	assert.Equal(t, wallet, creds[0].Value)

	// A different kind is still open.
	require.NoError(t, svc.Submit(ctx, 200, model.CredentialEmail, "bob@example.com"))
}

func TestCredentialSubmit_RejectsBadFormats(t *testing.T) {
	store := newMemStore()
	svc := NewCredentialService(store)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Submit(ctx, 1, model.CredentialWallet, "short"), ErrInvalidValue)
	assert.ErrorIs(t, svc.Submit(ctx, 1, model.CredentialEmail, "not-an-email"), ErrInvalidValue)
	assert.ErrorIs(t, svc.Submit(ctx, 1, model.CredentialHandle, "a b"), ErrInvalidValue)

	kinds, err := svc.SubmittedKinds(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, kinds)
}
