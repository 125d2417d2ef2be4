package events

import (
	"encoding/json"
	"time"
)

const (
	EventTransactionCreated = "transaction.created"
	EventTransactionDeleted = "transaction.deleted"
	EventTransactionsLoaded = "transactions.imported"
)

// TransactionEvent is the message published after a transaction write.
// It carries only identifiers; consumers fetch the full record.
type TransactionEvent struct {
	Event         string    `json:"event"`
	TransactionID int64     `json:"transaction_id,omitempty"`
	Count         int       `json:"count,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEvent(event string, id int64) *TransactionEvent {
	return &TransactionEvent{
		Event:         event,
		TransactionID: id,
		Timestamp:     time.Now(),
	}
}

func NewImportEvent(count int) *TransactionEvent {
	return &TransactionEvent{
		Event:     EventTransactionsLoaded,
		Count:     count,
		Timestamp: time.Now(),
	}
}

func (m *TransactionEvent) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventFromJSON(data []byte) (*TransactionEvent, error) {
	var msg TransactionEvent
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
