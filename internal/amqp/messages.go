package amqp

import (
	"encoding/json"
	"time"
)

const (
	// EventTransactionRecorded is emitted after a transaction commits.
	EventTransactionRecorded = "transaction.recorded"
	// EventAggregateStale is emitted when a summary tier may be out of step
	// with the transaction record and needs recomputation.
	EventAggregateStale = "aggregate.stale"
)

// EventMessage is the single wire format on the ledger event queue. The
// payload is intentionally light: consumers fetch whatever full state they
// need from the store, keyed by Date.
type EventMessage struct {
	Type          string    `json:"type"`
	TransactionID string    `json:"transactionId,omitempty"`
	Date          string    `json:"date"`
	Reason        string    `json:"reason,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionRecordedMessage(transactionID, date string) *EventMessage {
	return &EventMessage{
		Type:          EventTransactionRecorded,
		TransactionID: transactionID,
		Date:          date,
		Timestamp:     time.Now(),
	}
}

func NewAggregateStaleMessage(date, reason string) *EventMessage {
	return &EventMessage{
		Type:      EventAggregateStale,
		Date:      date,
		Reason:    reason,
		Timestamp: time.Now(),
	}
}

func (m *EventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func EventMessageFromJSON(data []byte) (*EventMessage, error) {
	var msg EventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
