package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/TekToro-IIoT/invoicing-portal-sub000/internal/models"
)

type CacheService interface {
	// Client caching
	GetClient(ctx context.Context, userID, clientID uuid.UUID) (*models.Client, error)
	SetClient(ctx context.Context, userID uuid.UUID, client *models.Client, ttl time.Duration) error
	DeleteClient(ctx context.Context, userID, clientID uuid.UUID) error

	// Company caching
	GetCompany(ctx context.Context, userID, companyID uuid.UUID) (*models.Company, error)
	SetCompany(ctx context.Context, userID uuid.UUID, company *models.Company, ttl time.Duration) error
	DeleteCompany(ctx context.Context, userID, companyID uuid.UUID) error

	// Analytics caching
	GetInvoiceAnalytics(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error)
	SetInvoiceAnalytics(ctx context.Context, userID uuid.UUID, analytics map[string]interface{}, ttl time.Duration) error
	DeleteInvoiceAnalytics(ctx context.Context, userID uuid.UUID) error

	// Cache invalidation
	InvalidateUserCache(ctx context.Context, userID uuid.UUID) error
	InvalidateAllCache(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
	IncrementRateLimit(ctx context.Context, key string, window time.Duration) error

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port URLs as well as bare host:port
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	}

	return &redisCacheService{client: client}
}

func clientKey(userID, clientID uuid.UUID) string {
	return fmt.Sprintf("invoicing:client:%s:%s", userID.String(), clientID.String())
}

func companyKey(userID, companyID uuid.UUID) string {
	return fmt.Sprintf("invoicing:company:%s:%s", userID.String(), companyID.String())
}

func analyticsKey(userID uuid.UUID) string {
	return fmt.Sprintf("invoicing:analytics:%s", userID.String())
}

func (r *redisCacheService) GetClient(ctx context.Context, userID, clientID uuid.UUID) (*models.Client, error) {
	data, err := r.client.Get(ctx, clientKey(userID, clientID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var client models.Client
	if err := json.Unmarshal(data, &client); err != nil {
		return nil, err
	}
	return &client, nil
}

func (r *redisCacheService) SetClient(ctx context.Context, userID uuid.UUID, client *models.Client, ttl time.Duration) error {
	data, err := json.Marshal(client)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, clientKey(userID, client.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteClient(ctx context.Context, userID, clientID uuid.UUID) error {
	return r.client.Del(ctx, clientKey(userID, clientID)).Err()
}

func (r *redisCacheService) GetCompany(ctx context.Context, userID, companyID uuid.UUID) (*models.Company, error) {
	data, err := r.client.Get(ctx, companyKey(userID, companyID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var company models.Company
	if err := json.Unmarshal(data, &company); err != nil {
		return nil, err
	}
	return &company, nil
}

func (r *redisCacheService) SetCompany(ctx context.Context, userID uuid.UUID, company *models.Company, ttl time.Duration) error {
	data, err := json.Marshal(company)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, companyKey(userID, company.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteCompany(ctx context.Context, userID, companyID uuid.UUID) error {
	return r.client.Del(ctx, companyKey(userID, companyID)).Err()
}

func (r *redisCacheService) GetInvoiceAnalytics(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	data, err := r.client.Get(ctx, analyticsKey(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var analytics map[string]interface{}
	if err := json.Unmarshal(data, &analytics); err != nil {
		return nil, err
	}
	return analytics, nil
}

func (r *redisCacheService) SetInvoiceAnalytics(ctx context.Context, userID uuid.UUID, analytics map[string]interface{}, ttl time.Duration) error {
	data, err := json.Marshal(analytics)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, analyticsKey(userID), data, ttl).Err()
}

func (r *redisCacheService) DeleteInvoiceAnalytics(ctx context.Context, userID uuid.UUID) error {
	return r.client.Del(ctx, analyticsKey(userID)).Err()
}

// InvalidateUserCache removes every cached entry belonging to one user.
func (r *redisCacheService) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error {
	pattern := fmt.Sprintf("invoicing:*%s*", userID.String())
	iter := r.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("failed to delete cache key")
		}
	}
	return iter.Err()
}

func (r *redisCacheService) InvalidateAllCache(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "invoicing:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			log.Warn().Err(err).Str("key", iter.Val()).Msg("failed to delete cache key")
		}
	}
	return iter.Err()
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	rateKey := fmt.Sprintf("invoicing:ratelimit:%s", key)
	count, err := r.client.Get(ctx, rateKey).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, err
	}
	return count >= limit, nil
}

func (r *redisCacheService) IncrementRateLimit(ctx context.Context, key string, window time.Duration) error {
	rateKey := fmt.Sprintf("invoicing:ratelimit:%s", key)
	pipe := r.client.TxPipeline()
	pipe.Incr(ctx, rateKey)
	pipe.Expire(ctx, rateKey, window)
	_, err := pipe.Exec(ctx)
	return err
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", fmt.Errorf("key not found: %s", key)
		}
		return "", err
	}
	return val, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}
