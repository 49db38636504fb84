package amqp

import (
	"encoding/json"
	"time"
)

// Message kinds carried on the queue. The kind field routes a delivery
// to the right worker handler.
const (
	KindReminder = "reminder.send"
	KindExport   = "ledger.export"
)

// ReminderMessage asks the worker to deliver a payment reminder.
// It carries only the invoice ID and channel, the worker fetches the
// invoice and its balance from the database.
type ReminderMessage struct {
	Kind      string    `json:"kind"`
	InvoiceID string    `json:"invoice_id"`
	Channel   string    `json:"channel"`
	Timestamp time.Time `json:"timestamp"`
}

func NewReminderMessage(invoiceID, channel string) *ReminderMessage {
	return &ReminderMessage{
		Kind:      KindReminder,
		InvoiceID: invoiceID,
		Channel:   channel,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ReminderMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func ReminderMessageFromJSON(data []byte) (*ReminderMessage, error) {
	var msg ReminderMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// ExportMessage asks the worker to push the ledger and earnings sheets.
// There is no payload beyond the trigger itself.
type ExportMessage struct {
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

func NewExportMessage() *ExportMessage {
	return &ExportMessage{
		Kind:      KindExport,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ExportMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// FromJSON creates a message from JSON bytes
func ExportMessageFromJSON(data []byte) (*ExportMessage, error) {
	var msg ExportMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// messageKind peeks at the kind field without decoding the full payload.
// Messages published before the kind field existed default to reminders.
func messageKind(data []byte) string {
	var env struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(data, &env); err != nil || env.Kind == "" {
		return KindReminder
	}
	return env.Kind
}
