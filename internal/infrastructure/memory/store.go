package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// Store is a process-local implementation of domain.RecordStore.
// State is lost on restart and is not shared between instances.
type Store struct {
	mu sync.Mutex

	identities map[string]*domain.Identity
	byEmail    map[string]string
	byPhone    map[string]string

	// challenges holds each phone's challenges in issue order, newest last
	challenges map[string][]*domain.Challenge

	clock domain.Clock
}

// NewStore creates an empty in-memory store
func NewStore(clock domain.Clock) *Store {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &Store{
		identities: make(map[string]*domain.Identity),
		byEmail:    make(map[string]string),
		byPhone:    make(map[string]string),
		challenges: make(map[string][]*domain.Challenge),
		clock:      clock,
	}
}

// Name implements domain.RecordStore
func (s *Store) Name() string { return "memory" }

// FindByEmail implements domain.CredentialStore
func (s *Store) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if key == "" {
		return nil, domain.ErrIdentityNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[key]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	return copyIdentity(s.identities[id]), nil
}

// FindByPhone implements domain.CredentialStore
func (s *Store) FindByPhone(ctx context.Context, phone string) (*domain.Identity, error) {
	key := domain.NormalizePhone(phone)
	if key == "" {
		return nil, domain.ErrIdentityNotFound
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byPhone[key]
	if !ok {
		return nil, domain.ErrIdentityNotFound
	}
	identity := s.identities[id]
	if identity.Role != domain.RolePatient {
		return nil, domain.ErrIdentityNotFound
	}
	return copyIdentity(identity), nil
}

// Create implements domain.CredentialStore. Email and phone uniqueness is checked under the same lock as the insert.
func (s *Store) Create(ctx context.Context, fields domain.NewIdentity) (*domain.Identity, error) {
	fields = fields.Canonical()

	s.mu.Lock()
	defer s.mu.Unlock()

	if fields.Email != "" {
		if _, taken := s.byEmail[fields.Email]; taken {
			return nil, domain.ErrDuplicateIdentity
		}
	}
	if fields.Phone != "" {
		if _, taken := s.byPhone[fields.Phone]; taken {
			return nil, domain.ErrDuplicateIdentity
		}
	}

	identity := &domain.Identity{
		ID:           uuid.NewString(),
		Email:        fields.Email,
		Phone:        fields.Phone,
		PasswordHash: fields.PasswordHash,
		Role:         fields.Role,
		FullName:     fields.FullName,
		License:      fields.License,
		CreatedAt:    s.clock.Now(),
	}

	s.identities[identity.ID] = identity
	if identity.Email != "" {
		s.byEmail[identity.Email] = identity.ID
	}
	if identity.Phone != "" {
		s.byPhone[identity.Phone] = identity.ID
	}
	return copyIdentity(identity), nil
}

// Store implements domain.ChallengeStore
func (s *Store) Store(ctx context.Context, phone, code string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	challenge := domain.NewChallenge(ulid.Make().String(), phone, code, s.clock.Now())
	s.challenges[challenge.Phone] = append(s.challenges[challenge.Phone], challenge)
	return challenge.Phone, nil
}

// Latest implements domain.ChallengeStore
func (s *Store) Latest(ctx context.Context, phone string) (*domain.Challenge, error) {
	key := domain.NormalizePhone(phone)

	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.challenges[key]
	if len(list) == 0 {
		return nil, domain.ErrChallengeNotFound
	}
	latest := *list[len(list)-1]
	return &latest, nil
}

// DeleteAll implements domain.ChallengeStore
func (s *Store) DeleteAll(ctx context.Context, phone string) error {
	key := domain.NormalizePhone(phone)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.challenges, key)
	return nil
}

// DeleteExpired drops every challenge past its expiry
func (s *Store) DeleteExpired(ctx context.Context) error {
	now := s.clock.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for phone, list := range s.challenges {
		kept := list[:0]
		for _, c := range list {
			if !c.Expired(now) {
				kept = append(kept, c)
			}
		}
		if len(kept) == 0 {
			delete(s.challenges, phone)
			continue
		}
		s.challenges[phone] = kept
	}
	return nil
}

func copyIdentity(i *domain.Identity) *domain.Identity {
	c := *i
	return &c
}

var _ domain.RecordStore = (*Store)(nil)
