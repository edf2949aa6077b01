package stream

import (
	// Go Internal Packages
	"context"
	"fmt"
	"strings"
	"time"

	// Local Packages
	errors "aether/errors"

	// External Packages
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Entry is one immutable log entry. ID is the stream-assigned identifier,
// strictly increasing within the log.
type Entry struct {
	ID     string
	Values map[string]string
}

// Log is a durable, multi-consumer append log backed by a Redis stream.
// Entries delivered to a consumer group stay in the group's pending list
// until acknowledged, which is what gives the pipeline its at-least-once
// guarantee.
type Log struct {
	client *redis.Client
	logger *zap.Logger
	name   string
}

func NewLog(client *redis.Client, logger *zap.Logger, name string) *Log {
	return &Log{client: client, logger: logger, name: name}
}

// Append appends a flat field mapping to the log and returns the assigned
// entry ID.
func (l *Log) Append(ctx context.Context, values map[string]string) (string, error) {
	args := make(map[string]interface{}, len(values))
	for k, v := range values {
		args[k] = v
	}
	id, err := l.client.XAdd(ctx, &redis.XAddArgs{Stream: l.name, Values: args}).Result()
	if err != nil {
		return "", errors.LogUnavailableErr(err)
	}
	return id, nil
}

// CreateGroup creates the consumer group positioned at the start of the log,
// creating the stream itself if needed. An already existing group is a no-op.
func (l *Log) CreateGroup(ctx context.Context, group string) error {
	err := l.client.XGroupCreateMkStream(ctx, l.name, group, "0").Err()
	if err != nil {
		if strings.Contains(err.Error(), "BUSYGROUP") {
			l.logger.Info("consumer group already exists", zap.String("group", group))
			return nil
		}
		return errors.LogUnavailableErr(err)
	}
	l.logger.Info("consumer group created", zap.String("group", group))
	return nil
}

// ReadGroup delivers up to count entries not yet delivered to this group,
// blocking up to block when none are available. Delivered entries are marked
// pending for the consumer until acknowledged. An empty read returns
// (nil, nil).
func (l *Log) ReadGroup(ctx context.Context, group, consumer string, count int64, block time.Duration) ([]Entry, error) {
	return l.read(ctx, group, consumer, ">", count, block)
}

// ReadPending re-reads entries already delivered to this consumer but never
// acknowledged. Used once on startup to recover a batch lost to a crash
// between delivery and acknowledgment.
func (l *Log) ReadPending(ctx context.Context, group, consumer string, count int64) ([]Entry, error) {
	return l.read(ctx, group, consumer, "0", count, 0)
}

func (l *Log) read(ctx context.Context, group, consumer, cursor string, count int64, block time.Duration) ([]Entry, error) {
	res, err := l.client.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    group,
		Consumer: consumer,
		Streams:  []string{l.name, cursor},
		Count:    count,
		Block:    block,
	}).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, errors.LogUnavailableErr(err)
	}

	var entries []Entry
	for _, s := range res {
		for _, msg := range s.Messages {
			values := make(map[string]string, len(msg.Values))
			for k, v := range msg.Values {
				values[k] = fmt.Sprint(v)
			}
			entries = append(entries, Entry{ID: msg.ID, Values: values})
		}
	}
	return entries, nil
}

// Ack removes the entry from the group's pending list. Acknowledging an
// entry that is not pending is a no-op.
func (l *Log) Ack(ctx context.Context, group, id string) error {
	if err := l.client.XAck(ctx, l.name, group, id).Err(); err != nil {
		return errors.LogUnavailableErr(err)
	}
	return nil
}

// Len reports how many entries the log currently holds. Diagnostic only;
// acknowledged entries still count until the stream is trimmed.
func (l *Log) Len(ctx context.Context) (int64, error) {
	n, err := l.client.XLen(ctx, l.name).Result()
	if err != nil {
		return 0, errors.LogUnavailableErr(err)
	}
	return n, nil
}
