package models

import (
	// Go Internal Packages
	"strconv"
	"time"

	// External Packages
	"github.com/google/uuid"
)

// Transaction statuses. The worker only ever advances pending to processed;
// a record is never moved back.
const (
	StatusPending   = "pending"
	StatusProcessed = "processed"
)

// Record is a raw record pulled from the upstream Kafka topic.
type Record struct {
	Key   []byte
	Value []byte
	Topic string
}

// Transaction is the persisted transaction record.
type Transaction struct {
	ID        string    `json:"transaction_id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	Amount    float64   `json:"amount" bson:"amount"`
	Currency  string    `json:"currency" bson:"currency"`
	Merchant  string    `json:"merchant" bson:"merchant"`
	Location  string    `json:"location,omitempty" bson:"location,omitempty"`
	Status    string    `json:"status" bson:"status"`
	IsFlagged bool      `json:"is_flagged" bson:"is_flagged"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

// StreamPayload flattens the transaction into the field mapping appended to
// the durable log. Every value is a string; the worker only needs
// transaction_id, the rest travels for operational visibility.
func (t *Transaction) StreamPayload() map[string]string {
	return map[string]string{
		"transaction_id": t.ID,
		"user_id":        t.UserID,
		"amount":         strconv.FormatFloat(t.Amount, 'f', -1, 64),
		"currency":       t.Currency,
		"merchant":       t.Merchant,
		"location":       t.Location,
		"status":         t.Status,
	}
}

// TransactionEvent is the inbound event shape on the Kafka topic.
type TransactionEvent struct {
	TxID     string  `json:"transaction_id"`
	UserID   string  `json:"user_id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Merchant string  `json:"merchant"`
	Location string  `json:"location"`
}

// NewTransaction builds the record to persist for an inbound event. Identity
// is taken from the event when the producer assigned one, generated here
// otherwise; the record always starts out pending.
func (e *TransactionEvent) NewTransaction() Transaction {
	id := e.TxID
	if id == "" {
		id = uuid.NewString()
	}
	currency := e.Currency
	if currency == "" {
		currency = "USD"
	}
	return Transaction{
		ID:        id,
		UserID:    e.UserID,
		Amount:    e.Amount,
		Currency:  currency,
		Merchant:  e.Merchant,
		Location:  e.Location,
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}
}
