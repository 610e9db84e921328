package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"spendwise/internal/records"
)

var ErrInvalidMessage = errors.New("invalid change message")

// ChangeMessage announces that one record of a collection was written.
// Consumers reload the whole collection; the message carries no record data.
type ChangeMessage struct {
	Collection string            `json:"collection"`
	RecordID   string            `json:"recordId"`
	Operation  records.Operation `json:"operation"`
	Timestamp  time.Time         `json:"timestamp"`
}

// NewChangeMessage builds a message for a store change event.
func NewChangeMessage(ev records.ChangeEvent) *ChangeMessage {
	return &ChangeMessage{
		Collection: ev.Collection,
		RecordID:   ev.RecordID,
		Operation:  ev.Operation,
		Timestamp:  time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func (m *ChangeMessage) Validate() error {
	switch m.Collection {
	case records.ReceiptsKey, records.TransactionsKey, records.AccountsKey:
	default:
		return fmt.Errorf("%w: unknown collection %q", ErrInvalidMessage, m.Collection)
	}
	switch m.Operation {
	case records.OpUpsert, records.OpDelete, records.OpReset:
	default:
		return fmt.Errorf("%w: unknown operation %q", ErrInvalidMessage, m.Operation)
	}
	return nil
}

// ChangeMessageFromJSON decodes and validates a message.
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	return &msg, nil
}
