package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/complyforge/backend/pkg/logger"
)

type Client struct {
	client *redis.Client
}

func NewClient(host string, port int, password string, db int) (*Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", host, port),
		Password: password,
		DB:       db,
	})

	ctx := context.Background()
	_, err := client.Ping(ctx).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	logger.Info("Redis client initialized", zap.String("addr", fmt.Sprintf("%s:%d", host, port)))

	return &Client{client: client}, nil
}

func (c *Client) Close() error {
	return c.client.Close()
}

// SetResult caches a completed assessment result under its id.
func (c *Client) SetResult(ctx context.Context, assessmentID string, result interface{}, ttl time.Duration) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	err = c.client.Set(ctx, fmt.Sprintf("assessment:%s", assessmentID), data, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set result cache: %w", err)
	}

	logger.Debug("Assessment result cached", zap.String("assessment_id", assessmentID), zap.Duration("ttl", ttl))
	return nil
}

// GetResult fetches a cached result into out. Returns false on a miss.
func (c *Client) GetResult(ctx context.Context, assessmentID string, out interface{}) (bool, error) {
	data, err := c.client.Get(ctx, fmt.Sprintf("assessment:%s", assessmentID)).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get result cache: %w", err)
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return false, fmt.Errorf("failed to unmarshal result: %w", err)
	}

	logger.Debug("Assessment cache hit", zap.String("assessment_id", assessmentID))
	return true, nil
}

// SetStatus caches the lifecycle state with a short TTL so status polling
// stays off the database.
func (c *Client) SetStatus(ctx context.Context, assessmentID, status string, ttl time.Duration) error {
	err := c.client.Set(ctx, fmt.Sprintf("status:%s", assessmentID), status, ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to set status cache: %w", err)
	}
	return nil
}

func (c *Client) GetStatus(ctx context.Context, assessmentID string) (string, bool, error) {
	status, err := c.client.Get(ctx, fmt.Sprintf("status:%s", assessmentID)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to get status cache: %w", err)
	}
	return status, true, nil
}

// InvalidateAssessment removes both cache entries for one assessment.
func (c *Client) InvalidateAssessment(ctx context.Context, assessmentID string) error {
	err := c.client.Del(ctx,
		fmt.Sprintf("assessment:%s", assessmentID),
		fmt.Sprintf("status:%s", assessmentID),
	).Err()
	if err != nil {
		return fmt.Errorf("failed to invalidate assessment cache: %w", err)
	}
	return nil
}

func (c *Client) IncrementMetric(ctx context.Context, metricName string) error {
	return c.client.Incr(ctx, fmt.Sprintf("metric:%s", metricName)).Err()
}

func (c *Client) GetMetric(ctx context.Context, metricName string) (int64, error) {
	val, err := c.client.Get(ctx, fmt.Sprintf("metric:%s", metricName)).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return val, err
}
