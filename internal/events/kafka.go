package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Kobayashi19860206/NodeShop/internal/domain"
)

type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(topic string, brokers ...string) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
	return &KafkaPublisher{writer: w}
}

type orderPlacedEvent struct {
	OrderID  string    `json:"order_id"`
	OwnerID  string    `json:"owner_id"`
	Total    string    `json:"total"`
	PlacedAt time.Time `json:"placed_at"`
}

func (p *KafkaPublisher) OrderPlaced(ctx context.Context, o *domain.Order) error {
	payload, err := json.Marshal(orderPlacedEvent{
		OrderID:  o.ID.String(),
		OwnerID:  o.OwnerID,
		Total:    o.Total().String(),
		PlacedAt: o.PlacedAt,
	})
	if err != nil {
		return fmt.Errorf("marshal order event: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(o.OwnerID), // per-owner ordering
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte("order_placed")},
		},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
