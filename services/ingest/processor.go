package ingest

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"

	// Local Packages
	models "aether/models"

	// External Packages
	"go.uber.org/zap"
)

type TxStore interface {
	InsertTransaction(ctx context.Context, tx models.Transaction) error
}

type AppendLog interface {
	Append(ctx context.Context, values map[string]string) (string, error)
}

type DeadLetterQueue interface {
	Send(ctx context.Context, records []models.Record) error
}

// Processor turns upstream Kafka records into persisted pending transactions
// and appends each one to the durable log for the worker group.
type Processor struct {
	Logger *zap.Logger
	Store  TxStore
	Log    AppendLog
	DLQ    DeadLetterQueue
}

func NewProcessor(logger *zap.Logger, store TxStore, log AppendLog, dlq DeadLetterQueue) *Processor {
	return &Processor{Logger: logger, Store: store, Log: log, DLQ: dlq}
}

// ProcessRecords persists each decodable record with status pending and then
// appends it to the log. The append runs strictly after the insert has
// returned; if the append fails the record stays pending and is picked up by
// the out-of-band reconciliation path, never rolled back here. Records that
// fail to decode go to the dead letter queue and do not abort the batch.
func (p *Processor) ProcessRecords(ctx context.Context, records []models.Record) error {
	if len(records) == 0 {
		return nil
	}

	var failed []models.Record
	for _, record := range records {
		var event models.TransactionEvent
		if err := json.Unmarshal(record.Value, &event); err != nil {
			p.Logger.Error("failed to unmarshal transaction", zap.Error(err))
			failed = append(failed, record)
			continue
		}

		tx := event.NewTransaction()
		if err := p.Store.InsertTransaction(ctx, tx); err != nil {
			return fmt.Errorf("failed to insert transaction: %v", err)
		}

		entryID, err := p.Log.Append(ctx, tx.StreamPayload())
		if err != nil {
			p.Logger.Error("failed to append transaction to stream",
				zap.String("transaction_id", tx.ID), zap.Error(err))
			continue
		}
		p.Logger.Debug("transaction queued",
			zap.String("transaction_id", tx.ID), zap.String("entry_id", entryID))
	}

	if len(failed) > 0 {
		if err := p.DLQ.Send(ctx, failed); err != nil {
			p.Logger.Error("failed to send records to dead letter queue", zap.Error(err))
		}
	}
	return nil
}
