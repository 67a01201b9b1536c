package repositories

import (
	"context"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

// DurableStore joins an identity repository and a challenge repository into one domain.RecordStore
type DurableStore struct {
	domain.CredentialStore
	domain.ChallengeStore
	name string
}

// NewDurableStore creates a record store backed by the given repositories
func NewDurableStore(name string, identities domain.CredentialStore, challenges domain.ChallengeStore) *DurableStore {
	return &DurableStore{CredentialStore: identities, ChallengeStore: challenges, name: name}
}

// Name implements domain.RecordStore
func (s *DurableStore) Name() string { return s.name }

// DeleteExpired implements domain.ChallengeReaper when the challenge repository supports it
func (s *DurableStore) DeleteExpired(ctx context.Context) error {
	if reaper, ok := s.ChallengeStore.(domain.ChallengeReaper); ok {
		return reaper.DeleteExpired(ctx)
	}
	return nil
}

var (
	_ domain.RecordStore     = (*DurableStore)(nil)
	_ domain.ChallengeReaper = (*DurableStore)(nil)
)
