package auth

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/BruksfildServices01/asset-tracker/internal/models"
)

// Blacklist tracks revoked refresh tokens by jti.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, userID uint, until time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// ======================================================
// REDIS
// ======================================================

const redisKeyPrefix = "assets:blacklist:"

type redisCmdable interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Exists(ctx context.Context, keys ...string) *redis.IntCmd
}

type RedisBlacklist struct {
	client redisCmdable
	now    func() time.Time
}

func NewRedisBlacklist(client redisCmdable) *RedisBlacklist {
	return &RedisBlacklist{client: client, now: time.Now}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, userID uint, until time.Time) error {
	ttl := until.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	return b.client.Set(ctx, redisKeyPrefix+jti, userID, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, redisKeyPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// ======================================================
// GORM
// ======================================================

type GormBlacklist struct {
	db *gorm.DB
}

func NewGormBlacklist(db *gorm.DB) *GormBlacklist {
	return &GormBlacklist{db: db}
}

func (b *GormBlacklist) Revoke(ctx context.Context, jti string, userID uint, until time.Time) error {
	entry := models.BlacklistedToken{JTI: jti, UserID: userID, ExpiresAt: until}
	return b.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

func (b *GormBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	var count int64
	if err := b.db.WithContext(ctx).
		Model(&models.BlacklistedToken{}).
		Where("jti = ?", jti).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Purge deletes entries whose token would already be rejected as expired.
func (b *GormBlacklist) Purge(ctx context.Context, now time.Time) (int64, error) {
	res := b.db.WithContext(ctx).
		Where("expires_at < ?", now).
		Delete(&models.BlacklistedToken{})
	return res.RowsAffected, res.Error
}

// RunPurge purges expired entries every interval until ctx is cancelled.
func (b *GormBlacklist) RunPurge(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := b.Purge(ctx, now)
			if err != nil {
				log.Error().Err(err).Msg("token blacklist purge failed")
				continue
			}
			if n > 0 {
				log.Info().Int64("deleted", n).Msg("token blacklist purged")
			}
		}
	}
}

var (
	_ Blacklist = (*RedisBlacklist)(nil)
	_ Blacklist = (*GormBlacklist)(nil)
)
