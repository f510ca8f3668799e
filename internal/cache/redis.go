package cache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store agrupa as chaves efêmeras da API no Redis: blacklist de JWT e
// contadores de rate limit.
type Store struct {
	rdb *redis.Client
}

func NewStore(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

// --- Blacklist JWT (revogação antes do vencimento) ---

// BlacklistToken revoga o token até o seu vencimento natural.
func (s *Store) BlacklistToken(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return s.rdb.Set(ctx, "blacklist:"+tokenID, "revoked", ttl).Err()
}

// IsTokenBlacklisted falha aberta: com o Redis fora, o token continua válido.
func (s *Store) IsTokenBlacklisted(ctx context.Context, tokenID string) bool {
	exists, err := s.rdb.Exists(ctx, "blacklist:"+tokenID).Result()
	if err != nil {
		log.Printf("⚠️ Erro ao verificar blacklist: %v", err)
		return false
	}
	return exists > 0
}

// --- Rate limiting ---

// IncrementRateLimit incrementa o contador. A janela começa no primeiro hit;
// um contador que ficou sem TTL (EXPIRE anterior falhou) ganha a janela de novo.
func (s *Store) IncrementRateLimit(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("incr %s: %w", key, err)
	}

	n := incr.Val()
	if ttl.Val() < 0 {
		if err := s.rdb.Expire(ctx, key, window).Err(); err != nil {
			return n, fmt.Errorf("expire %s: %w", key, err)
		}
	}
	return n, nil
}

func (s *Store) GetRateLimit(ctx context.Context, key string) (int64, error) {
	val, err := s.rdb.Get(ctx, key).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return val, err
}

// RateLimitTTL devolve quanto falta para a janela expirar.
func (s *Store) RateLimitTTL(ctx context.Context, key string) time.Duration {
	ttl, err := s.rdb.TTL(ctx, key).Result()
	if err != nil || ttl < 0 {
		return 0
	}
	return ttl
}

func (s *Store) ResetRateLimit(ctx context.Context, key string) error {
	return s.rdb.Del(ctx, key).Err()
}
