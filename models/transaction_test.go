package models

import (
	// Go Internal Packages
	"testing"
	"time"

	// External Packages
	"github.com/stretchr/testify/require"
)

func TestStreamPayload(t *testing.T) {
	tx := Transaction{
		ID:        "tx-1",
		UserID:    "user-1",
		Amount:    42.5,
		Currency:  "EUR",
		Merchant:  "acme",
		Location:  "Berlin",
		Status:    StatusPending,
		CreatedAt: time.Now().UTC(),
	}

	payload := tx.StreamPayload()
	require.Equal(t, map[string]string{
		"transaction_id": "tx-1",
		"user_id":        "user-1",
		"amount":         "42.5",
		"currency":       "EUR",
		"merchant":       "acme",
		"location":       "Berlin",
		"status":         "pending",
	}, payload)
}

func TestNewTransactionDefaults(t *testing.T) {
	event := TransactionEvent{UserID: "user-1", Amount: 10, Merchant: "acme"}
	tx := event.NewTransaction()

	require.NotEmpty(t, tx.ID)
	require.Equal(t, "USD", tx.Currency)
	require.Equal(t, StatusPending, tx.Status)
	require.False(t, tx.IsFlagged)
	require.WithinDuration(t, time.Now().UTC(), tx.CreatedAt, time.Minute)
}

func TestNewTransactionKeepsProducerIdentity(t *testing.T) {
	event := TransactionEvent{TxID: "tx-9", Currency: "GBP", Amount: 1}
	tx := event.NewTransaction()

	require.Equal(t, "tx-9", tx.ID)
	require.Equal(t, "GBP", tx.Currency)
}
