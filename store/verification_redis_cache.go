package store

import (
	"context"
	"log"
	"time"

	"github.com/go-redis/redis"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"openspace_backend/domain"
)

// Codes expire after ten minutes. Setting a new code for the same key
// overwrites the old one, which keeps exactly one active code per user.
const otpTTL = 10 * time.Minute

type VerificationRedisCache struct {
	client *redis.Client
	tracer trace.Tracer
}

func NewVerificationRedisCache(client *redis.Client, tracer trace.Tracer) domain.VerificationCache {
	return &VerificationRedisCache{
		client: client,
		tracer: tracer,
	}
}

func (cache *VerificationRedisCache) PostCacheData(ctx context.Context, key string, value string) error {
	ctx, span := cache.tracer.Start(ctx, "VerificationRedisCache.PostCacheData")
	defer span.End()

	result := cache.client.Set(key, value, otpTTL)
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error posting cached value")
		log.Printf("redis set error: %s", result.Err())
		return result.Err()
	}

	return nil
}

func (cache *VerificationRedisCache) GetCachedValue(ctx context.Context, key string) (string, error) {
	ctx, span := cache.tracer.Start(ctx, "VerificationRedisCache.GetCachedValue")
	defer span.End()

	result := cache.client.Get(key)
	code, err := result.Result()
	if err != nil {
		span.SetStatus(codes.Error, "Error getting cached value")
		log.Println(err)
		return "", err
	}
	return code, nil
}

func (cache *VerificationRedisCache) DelCachedValue(ctx context.Context, key string) error {
	ctx, span := cache.tracer.Start(ctx, "VerificationRedisCache.DelCachedValue")
	defer span.End()

	result := cache.client.Del(key)
	if result.Err() != nil {
		span.SetStatus(codes.Error, "Error deleting cached value")
		log.Println(result.Err())
		return result.Err()
	}

	return nil
}
