package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"esgcheck/internal/model"
)

// ReportCache keeps score reports of submitted sessions. Reports outlive
// the sessions they were computed from.
type ReportCache interface {
	GetReport(ctx context.Context, sessionID string) (*model.ScoreReport, error)
	SetReport(ctx context.Context, report *model.ScoreReport) error
}

type reportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	return &reportCache{
		client: client,
		ttl:    ttl,
	}
}

func (c *reportCache) reportKey(sessionID string) string {
	return fmt.Sprintf("assessment:report:%s", sessionID)
}

func (c *reportCache) GetReport(ctx context.Context, sessionID string) (*model.ScoreReport, error) {
	data, err := c.client.Get(ctx, c.reportKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var report model.ScoreReport
	if err := json.Unmarshal([]byte(data), &report); err != nil {
		return nil, err
	}
	return &report, nil
}

func (c *reportCache) SetReport(ctx context.Context, report *model.ScoreReport) error {
	data, err := json.Marshal(report)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.reportKey(report.SessionID), data, c.ttl).Err()
}
