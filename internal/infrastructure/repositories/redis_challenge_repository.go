package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/redis/go-redis/v9"

	"github.com/SUJAY300/medi-vault-web-app/domain"
)

const challengeKeyPrefix = "otp:challenges:"

// RedisChallengeRepository implements domain.ChallengeStore on a per-phone Redis list.
// Each issuance appends to the list and resets the key TTL to the challenge lifetime.
type RedisChallengeRepository struct {
	client *redis.Client
	clock  domain.Clock
}

type redisChallenge struct {
	ID        string    `json:"id"`
	Phone     string    `json:"phone"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// NewRedisChallengeRepository creates a new Redis-backed challenge repository
func NewRedisChallengeRepository(client *redis.Client, clock domain.Clock) *RedisChallengeRepository {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &RedisChallengeRepository{client: client, clock: clock}
}

func challengeKey(phone string) string {
	return challengeKeyPrefix + domain.NormalizePhone(phone)
}

// Store implements domain.ChallengeStore
func (r *RedisChallengeRepository) Store(ctx context.Context, phone, code string) (string, error) {
	challenge := domain.NewChallenge(ulid.Make().String(), phone, code, r.clock.Now().UTC())
	payload, err := json.Marshal(redisChallenge{
		ID:        challenge.ID,
		Phone:     challenge.Phone,
		Code:      challenge.Code,
		CreatedAt: challenge.CreatedAt,
		ExpiresAt: challenge.ExpiresAt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal otp challenge: %w", err)
	}

	key := challengeKey(phone)
	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.RPush(ctx, key, payload)
		pipe.Expire(ctx, key, domain.ChallengeTTL)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to store otp challenge: %w", err)
	}
	return challenge.Phone, nil
}

// Latest implements domain.ChallengeStore
func (r *RedisChallengeRepository) Latest(ctx context.Context, phone string) (*domain.Challenge, error) {
	raw, err := r.client.LIndex(ctx, challengeKey(phone), -1).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to read otp challenge: %w", err)
	}

	var stored redisChallenge
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode otp challenge: %w", err)
	}
	return &domain.Challenge{
		ID:        stored.ID,
		Phone:     stored.Phone,
		Code:      stored.Code,
		CreatedAt: stored.CreatedAt,
		ExpiresAt: stored.ExpiresAt,
	}, nil
}

// DeleteAll implements domain.ChallengeStore
func (r *RedisChallengeRepository) DeleteAll(ctx context.Context, phone string) error {
	if err := r.client.Del(ctx, challengeKey(phone)).Err(); err != nil {
		return fmt.Errorf("failed to delete otp challenges: %w", err)
	}
	return nil
}

// DeleteExpired implements domain.ChallengeReaper. Key TTLs already evict expired lists.
func (r *RedisChallengeRepository) DeleteExpired(ctx context.Context) error {
	return nil
}

var (
	_ domain.ChallengeStore  = (*RedisChallengeRepository)(nil)
	_ domain.ChallengeReaper = (*RedisChallengeRepository)(nil)
)
