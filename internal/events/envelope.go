package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Envelope 领域事件统一信封
type Envelope struct {
	EventID      string          `json:"event_id"`
	EventType    string          `json:"event_type"`
	EventVersion int             `json:"event_version"`
	OccurredAt   time.Time       `json:"occurred_at"`
	Producer     string          `json:"producer"`
	TraceID      string          `json:"trace_id,omitempty"`
	Payload      json.RawMessage `json:"payload"`
}

// NewEnvelope 构建事件信封，OccurredAt 统一使用 UTC
func NewEnvelope(eventType string, version int, producer, traceID string, payload interface{}) (Envelope, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode event payload: %w", err)
	}
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: version,
		OccurredAt:   time.Now().UTC(),
		Producer:     producer,
		TraceID:      traceID,
		Payload:      body,
	}, nil
}

// DecodePayload 解析信封中的具体载荷
func DecodePayload[T any](env Envelope) (T, error) {
	var out T
	if err := json.Unmarshal(env.Payload, &out); err != nil {
		return out, fmt.Errorf("decode event payload: %w", err)
	}
	return out, nil
}
