package services

import (
	"encoding/json"
	"time"

	"go.uber.org/zap"
)

// Routing keys of the catalog events.
const (
	EventProductCreated = "product.created"
	EventProductUpdated = "product.updated"
	EventProductDeleted = "product.deleted"
	EventProductsPurged = "products.purged"
)

// EventPublisher sends a message to the broker under routingKey.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// CatalogEvent is the body of every catalog event.
type CatalogEvent struct {
	Event     string    `json:"event"`
	ProductID string    `json:"productId,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	Count     int64     `json:"count,omitempty"`
	At        time.Time `json:"at"`
}

// publishEvent is best effort: the catalog never fails because the broker did.
func publishEvent(publisher EventPublisher, event CatalogEvent) {
	if publisher == nil {
		return
	}
	event.At = time.Now().UTC()

	body, err := json.Marshal(event)
	if err != nil {
		zap.L().Warn("failed to marshal catalog event", zap.String("event", event.Event), zap.Error(err))
		return
	}
	if err := publisher.Publish(event.Event, body); err != nil {
		zap.L().Warn("failed to publish catalog event",
			zap.String("event", event.Event), zap.String("product_id", event.ProductID), zap.Error(err))
	}
}
