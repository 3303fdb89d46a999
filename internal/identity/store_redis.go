package identity

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"finshare/pkg/platform/sentinel"
)

const (
	codeKeyPrefix  = "finshare:verify:code:"
	proofKeyPrefix = "finshare:verify:proof:"
)

// RedisStore shares verification state across instances. Code expiry rides on
// Redis key TTLs, so an expired code reads the same as a missing one.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) PutCode(ctx context.Context, owner, code string, ttl time.Duration) error {
	return s.client.Set(ctx, codeKeyPrefix+owner, code, ttl).Err()
}

func (s *RedisStore) GetCode(ctx context.Context, owner string) (PendingCode, error) {
	pipe := s.client.Pipeline()
	getCmd := pipe.Get(ctx, codeKeyPrefix+owner)
	ttlCmd := pipe.TTL(ctx, codeKeyPrefix+owner)
	if _, err := pipe.Exec(ctx); err != nil {
		if errors.Is(err, redis.Nil) {
			return PendingCode{}, sentinel.ErrNotFound
		}
		return PendingCode{}, err
	}
	return PendingCode{
		Code:      getCmd.Val(),
		ExpiresAt: time.Now().Add(ttlCmd.Val()),
	}, nil
}

func (s *RedisStore) DeleteCode(ctx context.Context, owner string) error {
	return s.client.Del(ctx, codeKeyPrefix+owner).Err()
}

func (s *RedisStore) PutProof(ctx context.Context, owner string, slot ProofSlot, digest string) error {
	return s.client.HSet(ctx, proofKeyPrefix+owner, string(slot), digest).Err()
}

func (s *RedisStore) GetProofs(ctx context.Context, owner string) (Proofs, error) {
	fields, err := s.client.HGetAll(ctx, proofKeyPrefix+owner).Result()
	if err != nil {
		return Proofs{}, err
	}
	return Proofs{
		Code:       fields[string(ProofCode)],
		NationalID: fields[string(ProofNationalID)],
	}, nil
}

var _ Store = (*RedisStore)(nil)
