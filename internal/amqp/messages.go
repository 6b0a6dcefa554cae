package amqp

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// RecordSyncMessage asks the worker to mirror one stored record to Google
// Sheets. Only the id travels; the worker loads the record from SQLite.
type RecordSyncMessage struct {
	MessageID  uuid.UUID `json:"message_id"`
	RecordID   int64     `json:"record_id"`
	Collection string    `json:"collection"`
	Timestamp  time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(recordID int64, collection string) *RecordSyncMessage {
	return &RecordSyncMessage{
		MessageID:  uuid.New(),
		RecordID:   recordID,
		Collection: collection,
		Timestamp:  time.Now(),
	}
}

func (m *RecordSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// RecordSyncMessageFromJSON decodes and sanity-checks a message body.
func RecordSyncMessageFromJSON(data []byte) (*RecordSyncMessage, error) {
	var msg RecordSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.RecordID <= 0 {
		return nil, fmt.Errorf("invalid record id %d", msg.RecordID)
	}
	if msg.Collection == "" {
		return nil, errors.New("missing collection")
	}
	return &msg, nil
}
