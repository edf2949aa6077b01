package ingest

import (
	// Go Internal Packages
	"context"
	"encoding/json"
	"fmt"
	"testing"

	// Local Packages
	errors "aether/errors"
	models "aether/models"

	// External Packages
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// journal records the order of store inserts and log appends so tests can
// assert the append never runs before its insert.
type journal struct {
	ops []string
}

type fakeStore struct {
	journal   *journal
	inserted  []models.Transaction
	failAfter int
	calls     int
}

func (f *fakeStore) InsertTransaction(_ context.Context, tx models.Transaction) error {
	f.calls++
	if f.failAfter > 0 && f.calls > f.failAfter {
		return fmt.Errorf("insert refused")
	}
	f.inserted = append(f.inserted, tx)
	f.journal.ops = append(f.journal.ops, "insert:"+tx.ID)
	return nil
}

type fakeLog struct {
	journal  *journal
	payloads []map[string]string
	fail     bool
	nextID   int
}

func (f *fakeLog) Append(_ context.Context, values map[string]string) (string, error) {
	if f.fail {
		return "", errors.LogUnavailableErr(fmt.Errorf("connection refused"))
	}
	f.payloads = append(f.payloads, values)
	f.journal.ops = append(f.journal.ops, "append:"+values["transaction_id"])
	f.nextID++
	return fmt.Sprintf("%d-0", f.nextID), nil
}

type fakeDLQ struct {
	records []models.Record
}

func (f *fakeDLQ) Send(_ context.Context, records []models.Record) error {
	f.records = append(f.records, records...)
	return nil
}

func eventRecord(t *testing.T, event models.TransactionEvent) models.Record {
	t.Helper()
	value, err := json.Marshal(event)
	require.NoError(t, err)
	return models.Record{Key: []byte(event.TxID), Value: value, Topic: "transactions"}
}

func newFixture() (*fakeStore, *fakeLog, *fakeDLQ, *Processor) {
	j := &journal{}
	store := &fakeStore{journal: j}
	log := &fakeLog{journal: j}
	dlq := &fakeDLQ{}
	return store, log, dlq, NewProcessor(zap.NewNop(), store, log, dlq)
}

func TestProcessRecordsPersistsThenAppends(t *testing.T) {
	store, log, dlq, p := newFixture()

	record := eventRecord(t, models.TransactionEvent{
		TxID: "tx-1", UserID: "user-1", Amount: 42.50, Merchant: "acme",
	})

	require.NoError(t, p.ProcessRecords(context.Background(), []models.Record{record}))
	require.Empty(t, dlq.records)

	require.Len(t, store.inserted, 1)
	tx := store.inserted[0]
	require.Equal(t, "tx-1", tx.ID)
	require.Equal(t, models.StatusPending, tx.Status)
	require.False(t, tx.CreatedAt.IsZero())

	// The log payload carries the same identity as the persisted record.
	require.Len(t, log.payloads, 1)
	require.Equal(t, tx.ID, log.payloads[0]["transaction_id"])
	require.Equal(t, models.StatusPending, log.payloads[0]["status"])

	// Insert strictly before append.
	require.Equal(t, []string{"insert:tx-1", "append:tx-1"}, store.journal.ops)
}

func TestProcessRecordsAssignsIdentityWhenMissing(t *testing.T) {
	store, log, _, p := newFixture()

	record := eventRecord(t, models.TransactionEvent{UserID: "user-1", Amount: 10, Merchant: "acme"})

	require.NoError(t, p.ProcessRecords(context.Background(), []models.Record{record}))

	require.Len(t, store.inserted, 1)
	require.NotEmpty(t, store.inserted[0].ID)
	require.Equal(t, store.inserted[0].ID, log.payloads[0]["transaction_id"])
}

func TestProcessRecordsSendsUndecodableToDLQ(t *testing.T) {
	store, log, dlq, p := newFixture()

	records := []models.Record{
		{Key: []byte("bad"), Value: []byte("{not-json"), Topic: "transactions"},
		eventRecord(t, models.TransactionEvent{TxID: "tx-2", Amount: 5, Merchant: "acme"}),
	}

	require.NoError(t, p.ProcessRecords(context.Background(), records))

	require.Len(t, dlq.records, 1)
	require.Equal(t, []byte("bad"), dlq.records[0].Key)

	// The good record still made it through.
	require.Len(t, store.inserted, 1)
	require.Len(t, log.payloads, 1)
}

func TestProcessRecordsAppendFailureKeepsRecordPending(t *testing.T) {
	store, log, dlq, p := newFixture()
	log.fail = true

	record := eventRecord(t, models.TransactionEvent{TxID: "tx-3", Amount: 5, Merchant: "acme"})

	// The append failure is absorbed: the committed record is not rolled
	// back, reconciliation happens out of band.
	require.NoError(t, p.ProcessRecords(context.Background(), []models.Record{record}))
	require.Len(t, store.inserted, 1)
	require.Empty(t, log.payloads)
	require.Empty(t, dlq.records)
}

func TestProcessRecordsInsertFailureAborts(t *testing.T) {
	store, _, _, p := newFixture()
	store.failAfter = 1

	records := []models.Record{
		eventRecord(t, models.TransactionEvent{TxID: "tx-4", Amount: 1, Merchant: "acme"}),
		eventRecord(t, models.TransactionEvent{TxID: "tx-5", Amount: 2, Merchant: "acme"}),
	}

	require.Error(t, p.ProcessRecords(context.Background(), records))
	require.Len(t, store.inserted, 1)
}

func TestProcessRecordsEmptyBatch(t *testing.T) {
	_, _, _, p := newFixture()
	require.NoError(t, p.ProcessRecords(context.Background(), nil))
}
