package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/docqa-labs/docqa-backend/internal/metricsink/domain"
)

const (
	recordKeyPrefix = "metrics:run:"   // Record data: metrics:run:{run_id}:{timestamp}
	runIndexPrefix  = "metrics:index:" // Set of timestamps per run: metrics:index:{run_id}
	runsSetKey      = "metrics:runs"   // Set of all run ids with records
	recordTTL       = 30 * 24 * time.Hour
)

// MetricsRepository handles Redis operations for run metrics. Records are
// append-only; the composite (run_id, timestamp) key permits multiple records
// per run without overwrite.
type MetricsRepository struct {
	client *redis.Client
}

func NewMetricsRepository(client *redis.Client) *MetricsRepository {
	return &MetricsRepository{client: client}
}

// Append writes one record. The timestamp is assigned here, at write time,
// when the caller left it zero.
func (r *MetricsRepository) Append(ctx context.Context, rec *domain.Record) error {
	if rec.RunID == "" {
		return domain.ErrMissingRunID
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}

	ts := rec.Timestamp.Format(time.RFC3339Nano)
	recordKey := r.recordKey(rec.RunID, ts)
	indexKey := r.runIndexKey(rec.RunID)

	pipe := r.client.Pipeline()
	pipe.Set(ctx, recordKey, data, recordTTL)
	pipe.SAdd(ctx, indexKey, ts)
	pipe.Expire(ctx, indexKey, recordTTL)
	pipe.SAdd(ctx, runsSetKey, rec.RunID)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append record: %w", err)
	}

	return nil
}

// ListByRun returns every record for a run, oldest first.
func (r *MetricsRepository) ListByRun(ctx context.Context, runID string) ([]*domain.Record, error) {
	timestamps, err := r.client.SMembers(ctx, r.runIndexKey(runID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read run index: %w", err)
	}

	records := make([]*domain.Record, 0, len(timestamps))
	for _, ts := range timestamps {
		data, err := r.client.Get(ctx, r.recordKey(runID, ts)).Result()
		if err == redis.Nil {
			// Record expired since it was indexed; the sweeper prunes it.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to get record: %w", err)
		}

		var rec domain.Record
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, &rec)
	}

	sortRecords(records)
	return records, nil
}

// Sweep drops index entries whose record keys have expired and forgets runs
// left with no records. Returns the number of pruned index entries.
func (r *MetricsRepository) Sweep(ctx context.Context) (int, error) {
	runIDs, err := r.client.SMembers(ctx, runsSetKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to read runs set: %w", err)
	}

	pruned := 0
	for _, runID := range runIDs {
		indexKey := r.runIndexKey(runID)
		timestamps, err := r.client.SMembers(ctx, indexKey).Result()
		if err != nil {
			return pruned, fmt.Errorf("failed to read run index: %w", err)
		}

		remaining := len(timestamps)
		for _, ts := range timestamps {
			exists, err := r.client.Exists(ctx, r.recordKey(runID, ts)).Result()
			if err != nil {
				return pruned, fmt.Errorf("failed to check record: %w", err)
			}
			if exists == 0 {
				if err := r.client.SRem(ctx, indexKey, ts).Err(); err != nil {
					return pruned, fmt.Errorf("failed to prune index entry: %w", err)
				}
				pruned++
				remaining--
			}
		}

		if remaining == 0 {
			if err := r.client.SRem(ctx, runsSetKey, runID).Err(); err != nil {
				return pruned, fmt.Errorf("failed to forget run: %w", err)
			}
		}
	}

	return pruned, nil
}

func (r *MetricsRepository) recordKey(runID, ts string) string {
	return recordKeyPrefix + runID + ":" + ts
}

func (r *MetricsRepository) runIndexKey(runID string) string {
	return runIndexPrefix + runID
}

func sortRecords(records []*domain.Record) {
	sort.Slice(records, func(i, j int) bool {
		return records[i].Timestamp.Before(records[j].Timestamp)
	})
}
