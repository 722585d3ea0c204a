package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const envelopeVersion = 1

// Event types published by the order workflow.
const (
	TypeOrderCreated       = "order.created"
	TypeOrderLinesInserted = "order.lines_inserted"
	TypeStockLow           = "stock.low"
)

// Event is what services hand to a Publisher. Key selects the kafka partition.
type Event struct {
	Type       string
	Key        string
	OccurredAt time.Time
	Data       any
}

// Envelope is the stable JSON structure written to the topic.
type Envelope struct {
	Version    int             `json:"version"`
	EventID    string          `json:"eventId"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurredAt"`
	Data       json.RawMessage `json:"data"`
}

// OrderCreated is the payload of order.created.
type OrderCreated struct {
	OrderNumber  int64   `json:"numero_pedido"`
	CustomerCode *int64  `json:"codigo_cliente,omitempty"`
	Total        float64 `json:"total_pedido"`
	Lines        int     `json:"lineas,omitempty"`
}

// OrderLinesInserted is the payload of order.lines_inserted.
type OrderLinesInserted struct {
	OrderNumbers []int64 `json:"numeros_pedido"`
	Lines        int     `json:"lineas"`
}

// StockLow is the payload of stock.low.
type StockLow struct {
	ProductCode int64 `json:"codigo_producto"`
	OnHand      int64 `json:"existencia"`
	Threshold   int64 `json:"umbral"`
}

// Encode wraps the event data into a versioned envelope.
func Encode(evt Event) ([]byte, error) {
	if evt.Type == "" {
		return nil, fmt.Errorf("event type is required")
	}
	data, err := json.Marshal(evt.Data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", evt.Type, err)
	}
	occurred := evt.OccurredAt
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	return json.Marshal(Envelope{
		Version:    envelopeVersion,
		EventID:    uuid.NewString(),
		Type:       evt.Type,
		OccurredAt: occurred,
		Data:       data,
	})
}

// Decode parses an envelope and its payload into out.
func Decode(raw []byte, out any) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return env, fmt.Errorf("decode envelope: %w", err)
	}
	if out != nil {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("decode %s payload: %w", env.Type, err)
		}
	}
	return env, nil
}
