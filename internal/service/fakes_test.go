package service

import (
	"context"
	"errors"
	"maps"
	"slices"
	"sync"

	"github.com/iliyamo/shop-backend/internal/apperror"
	"github.com/iliyamo/shop-backend/internal/model"
)

// memDB is an in-memory stand-in for the user and token tables. tx
// restores the previous state when fn fails, as a rollback would.
type memDB struct {
	mu     sync.Mutex
	users  map[uint64]model.User
	tokens map[uint64]model.VerificationToken
	nextID uint64
}

func newMemDB() *memDB {
	return &memDB{users: map[uint64]model.User{}, tokens: map[uint64]model.VerificationToken{}}
}

func (m *memDB) stores() Stores { return Stores{Users: memUsers{m}, Tokens: memTokens{m}} }

func (m *memDB) tx(_ context.Context, fn func(Stores) error) error {
	m.mu.Lock()
	users, tokens, next := maps.Clone(m.users), maps.Clone(m.tokens), m.nextID
	m.mu.Unlock()
	if err := fn(m.stores()); err != nil {
		m.mu.Lock()
		m.users, m.tokens, m.nextID = users, tokens, next
		m.mu.Unlock()
		return err
	}
	return nil
}

func (m *memDB) id() uint64 {
	m.nextID++
	return m.nextID
}

type memUsers struct{ m *memDB }

func (s memUsers) FindByID(_ context.Context, id uint64) (model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u, ok := s.m.users[id]
	if !ok {
		return model.User{}, apperror.NotFound("user not found")
	}
	return u, nil
}

func (s memUsers) find(match func(model.User) bool) (model.User, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, u := range s.m.users {
		if match(u) {
			return u, nil
		}
	}
	return model.User{}, apperror.NotFound("user not found")
}

func (s memUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	return s.find(func(u model.User) bool { return u.Username == username })
}

func (s memUsers) FindByEmail(_ context.Context, email string) (model.User, error) {
	return s.find(func(u model.User) bool { return u.Email == email })
}

func (s memUsers) Create(_ context.Context, u *model.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	u.ID = s.m.id()
	s.m.users[u.ID] = *u
	return nil
}

func (s memUsers) Update(_ context.Context, u model.User) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[u.ID]; !ok {
		return apperror.NotFound("user not found")
	}
	s.m.users[u.ID] = u
	return nil
}

func (s memUsers) Delete(_ context.Context, id uint64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.users[id]; !ok {
		return apperror.NotFound("user not found")
	}
	delete(s.m.users, id)
	return nil
}

type memTokens struct{ m *memDB }

func (s memTokens) find(match func(model.VerificationToken) bool) (model.VerificationToken, error) {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, t := range s.m.tokens {
		if match(t) {
			return t, nil
		}
	}
	return model.VerificationToken{}, apperror.NotFound("token not found")
}

func (s memTokens) FindByToken(_ context.Context, token string) (model.VerificationToken, error) {
	return s.find(func(t model.VerificationToken) bool { return t.Token == token })
}

func (s memTokens) FindByUserID(_ context.Context, userID uint64) (model.VerificationToken, error) {
	return s.find(func(t model.VerificationToken) bool { return t.UserID == userID })
}

func (s memTokens) Create(_ context.Context, t *model.VerificationToken) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	for _, other := range s.m.tokens {
		if other.UserID == t.UserID {
			return apperror.Conflict("token already exists")
		}
	}
	t.ID = s.m.id()
	s.m.tokens[t.ID] = *t
	return nil
}

func (s memTokens) Delete(_ context.Context, id uint64) error {
	s.m.mu.Lock()
	defer s.m.mu.Unlock()
	if _, ok := s.m.tokens[id]; !ok {
		return apperror.NotFound("token not found")
	}
	delete(s.m.tokens, id)
	return nil
}

// memStore is a Store over a map, for the CRUD tests.
type memStore[E any] struct {
	items map[uint64]E
}

func (s *memStore[E]) FindByID(_ context.Context, id uint64) (E, error) {
	e, ok := s.items[id]
	if !ok {
		var zero E
		return zero, apperror.NotFound("entity %d not found", id)
	}
	return e, nil
}

func (s *memStore[E]) FindAllByIDs(_ context.Context, ids []uint64) ([]E, error) {
	out := []E{}
	sorted := slices.Clone(ids)
	slices.Sort(sorted)
	for _, id := range sorted {
		if e, ok := s.items[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *memStore[E]) Delete(_ context.Context, id uint64) error {
	delete(s.items, id)
	return nil
}

func (s *memStore[E]) DeleteAll(_ context.Context, ids []uint64) error {
	for _, id := range ids {
		delete(s.items, id)
	}
	return nil
}

// recordingMailer remembers what it was asked to send and fails with err
// when set.
type recordingMailer struct {
	sent []string
	err  error
}

func (r *recordingMailer) Send(_ context.Context, to, subject, _ string) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, to+"|"+subject)
	return nil
}

var errSMTPDown = errors.New("smtp down")
