package worker

import (
	// Go Internal Packages
	"context"
	"time"

	// Local Packages
	stream "aether/stream"

	// External Packages
	"go.uber.org/zap"
)

type EventLog interface {
	CreateGroup(ctx context.Context, group string) error
	ReadGroup(ctx context.Context, group, consumer string, count int64, block time.Duration) ([]stream.Entry, error)
	ReadPending(ctx context.Context, group, consumer string, count int64) ([]stream.Entry, error)
	Ack(ctx context.Context, group, id string) error
}

type TxStore interface {
	MarkProcessed(ctx context.Context, ids []string) error
}

type Config struct {
	Group        string
	Consumer     string
	BatchSize    int64
	PollBlock    time.Duration
	PollInterval time.Duration
	ErrorBackoff time.Duration
}

// Worker is the consumer-group worker loop. Each cycle polls the log for a
// batch, applies all status transitions in one transactional unit, and only
// after the unit commits acknowledges the entries. A failed batch is never
// acknowledged: the entries stay in the group's pending list and are
// redelivered, which is safe because the status transition is idempotent.
type Worker struct {
	log          EventLog
	store        TxStore
	config       Config
	logger       *zap.Logger
	retryPending bool
}

func New(log EventLog, store TxStore, config Config, logger *zap.Logger) *Worker {
	return &Worker{log: log, store: store, config: config, logger: logger}
}

// Run ensures the consumer group exists, recovers this consumer's own
// pending backlog, then polls until ctx is canceled. Transient failures are
// logged and retried after a backoff; Run only returns on cancellation or if
// the group cannot be created at all.
func (w *Worker) Run(ctx context.Context) error {
	if err := w.log.CreateGroup(ctx, w.config.Group); err != nil {
		return err
	}

	w.logger.Info("worker listening on stream",
		zap.String("group", w.config.Group), zap.String("consumer", w.config.Consumer))

	// Entries delivered before a crash are still pending under this
	// consumer's name; drain them before reading anything new.
	w.retryPending = true

	for {
		if ctx.Err() != nil {
			w.logger.Warn("polling stopped: context canceled")
			return ctx.Err()
		}

		entries, err := w.poll(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			w.logger.Error("worker error", zap.Error(err))
			w.sleep(ctx, w.config.ErrorBackoff)
			continue
		}

		if len(entries) == 0 {
			w.sleep(ctx, w.config.PollInterval)
			continue
		}

		w.logger.Info("pulled entries from stream", zap.Int("count", len(entries)))

		if err := w.applyBatch(ctx, entries); err != nil {
			// No acknowledgments happened: the whole batch remains
			// pending and will be redelivered.
			w.logger.Error("batch failed, entries remain pending", zap.Error(err))
			w.retryPending = true
			w.sleep(ctx, w.config.ErrorBackoff)
		}
	}
}

// poll reads the consumer's own pending entries while a previous batch is
// unfinished, and new entries otherwise.
func (w *Worker) poll(ctx context.Context) ([]stream.Entry, error) {
	if w.retryPending {
		entries, err := w.log.ReadPending(ctx, w.config.Group, w.config.Consumer, w.config.BatchSize)
		if err != nil {
			return nil, err
		}
		if len(entries) > 0 {
			return entries, nil
		}
		w.retryPending = false
	}
	return w.log.ReadGroup(ctx, w.config.Group, w.config.Consumer, w.config.BatchSize, w.config.PollBlock)
}

// applyBatch applies the status transition for every entry in delivery order
// inside one transactional unit, then acknowledges each entry. A crash
// between commit and acknowledgment redelivers already-processed entries,
// which the idempotent update absorbs.
func (w *Worker) applyBatch(ctx context.Context, entries []stream.Entry) error {
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		if id := entry.Values["transaction_id"]; id != "" {
			ids = append(ids, id)
		}
	}

	if err := w.store.MarkProcessed(ctx, ids); err != nil {
		return err
	}
	w.logger.Info("batch committed", zap.Int("processed", len(ids)))

	for _, entry := range entries {
		if err := w.log.Ack(ctx, w.config.Group, entry.ID); err != nil {
			w.logger.Error("failed to acknowledge entry",
				zap.String("entry_id", entry.ID), zap.Error(err))
			continue
		}
		w.logger.Debug("acknowledged entry", zap.String("entry_id", entry.ID))
	}
	return nil
}

// sleep waits for d or until ctx is canceled, whichever comes first.
func (w *Worker) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
