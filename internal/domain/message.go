package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// RawEvent is an unprocessed message from the query source topic.
type RawEvent struct {
	Key       []byte
	Value     []byte
	Headers   map[string]string
	Topic     string
	Partition int
	Offset    int64
	Timestamp time.Time
	Commit    func(ctx context.Context) error
}

// OutputEvent is the serialized form destined for the sink topic.
type OutputEvent struct {
	Key     []byte
	Value   []byte
	Headers map[string]string
}

// QueryMessage is the JSON payload of a source-topic message: one free-text
// climate question, optionally attributed to a requester.
type QueryMessage struct {
	Query       string `json:"query"`
	RequestedBy string `json:"requested_by,omitempty"`
}

// ParseQueryMessage deserializes a RawEvent's value into a QueryMessage.
func ParseQueryMessage(raw RawEvent) (QueryMessage, error) {
	var msg QueryMessage
	if err := json.Unmarshal(raw.Value, &msg); err != nil {
		return QueryMessage{}, fmt.Errorf("parse query message: %w", err)
	}
	if strings.TrimSpace(msg.Query) == "" {
		return QueryMessage{}, fmt.Errorf("parse query message: empty query")
	}
	return msg, nil
}

// SerializeInterpretation marshals an interpretation into a sink event,
// keyed by interpretation ID with dataset and processed_at headers.
func SerializeInterpretation(in Interpretation) (OutputEvent, error) {
	data, err := json.Marshal(in)
	if err != nil {
		return OutputEvent{}, fmt.Errorf("serialize interpretation: %w", err)
	}
	return OutputEvent{
		Key:   []byte(in.ID),
		Value: data,
		Headers: map[string]string{
			"dataset":      in.Request.DatasetName,
			"processed_at": in.ProcessedAt.Format(time.RFC3339),
		},
	}, nil
}
