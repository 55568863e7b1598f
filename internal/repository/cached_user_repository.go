package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	catalogDomain "github.com/shareit/service-booking/internal/domain/catalog"
	"github.com/shareit/service-booking/pkg/config"
	"github.com/shareit/service-booking/pkg/domain"
)

const userCachePrefix = "booking:user:"

// NewRedisClient creates a redis client from the cache settings.
func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

type cachedUser struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CachedUserRepository is a read-through redis cache in front of a UserRepository.
// Cache failures are logged and fall through to the wrapped repository.
type CachedUserRepository struct {
	next   catalogDomain.UserRepository
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedUserRepository wraps next with a cache whose entries live for ttl.
func NewCachedUserRepository(next catalogDomain.UserRepository, client *redis.Client, ttl time.Duration, logger *zap.Logger) *CachedUserRepository {
	return &CachedUserRepository{
		next:   next,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func userCacheKey(id uuid.UUID) string {
	return userCachePrefix + id.String()
}

// Exists answers from the cache when possible. Unknown users are not cached.
func (r *CachedUserRepository) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	if _, err := r.FindByID(ctx, id); err != nil {
		var nf *domain.NotFoundError
		if errors.As(err, &nf) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (r *CachedUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalogDomain.User, error) {
	if user := r.get(ctx, id); user != nil {
		return user, nil
	}
	user, err := r.next.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.set(ctx, user)
	return user, nil
}

func (r *CachedUserRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*catalogDomain.User, error) {
	users := make(map[uuid.UUID]*catalogDomain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = userCacheKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		r.logger.Warn("user cache read failed", zap.Error(err))
		values = make([]interface{}, len(ids))
	}

	var missing []uuid.UUID
	for i, id := range ids {
		if user := decodeCachedUser(values[i]); user != nil {
			users[id] = user
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return users, nil
	}

	loaded, err := r.next.FindByIDs(ctx, missing)
	if err != nil {
		return nil, err
	}
	for id, user := range loaded {
		users[id] = user
		r.set(ctx, user)
	}
	return users, nil
}

// Upsert writes through and drops the cached entry.
func (r *CachedUserRepository) Upsert(ctx context.Context, user *catalogDomain.User) error {
	if err := r.next.Upsert(ctx, user); err != nil {
		return err
	}
	if err := r.client.Del(ctx, userCacheKey(user.ID())).Err(); err != nil {
		r.logger.Warn("user cache invalidation failed",
			zap.String("user_id", user.ID().String()),
			zap.Error(err),
		)
	}
	return nil
}

func (r *CachedUserRepository) get(ctx context.Context, id uuid.UUID) *catalogDomain.User {
	val, err := r.client.Get(ctx, userCacheKey(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		r.logger.Warn("user cache read failed", zap.String("user_id", id.String()), zap.Error(err))
		return nil
	}
	return decodeCachedUser(val)
}

func (r *CachedUserRepository) set(ctx context.Context, user *catalogDomain.User) {
	data, err := json.Marshal(cachedUser{
		ID:        user.ID(),
		Name:      user.Name(),
		Email:     user.Email(),
		UpdatedAt: user.UpdatedAt(),
	})
	if err != nil {
		r.logger.Warn("user cache encode failed", zap.Error(err))
		return
	}
	if err := r.client.Set(ctx, userCacheKey(user.ID()), data, r.ttl).Err(); err != nil {
		r.logger.Warn("user cache write failed", zap.String("user_id", user.ID().String()), zap.Error(err))
	}
}

func decodeCachedUser(v interface{}) *catalogDomain.User {
	s, ok := v.(string)
	if !ok || s == "" {
		return nil
	}
	var cu cachedUser
	if err := json.Unmarshal([]byte(s), &cu); err != nil {
		return nil
	}
	return catalogDomain.ReconstructUser(cu.ID, cu.Name, cu.Email, cu.UpdatedAt)
}

// PingRedis checks the cache connection.
func PingRedis(ctx context.Context, client *redis.Client) error {
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}
	return nil
}
