package services

import (
	"log"
	"time"

	"checkout/internal/models"
)

// EventPublisher sends a JSON-encoded payload under a routing key.
type EventPublisher interface {
	PublishJSON(routingKey string, payload interface{}) error
}

// publishOrderEvent never fails the caller; events are best effort.
func publishOrderEvent(publisher EventPublisher, eventType string, order *models.Order) {
	if publisher == nil {
		log.Printf("Event publisher is not initialized. Skipping %s for order %s.", eventType, order.ID)
		return
	}
	event := models.OrderEvent{
		Type:        eventType,
		OrderID:     order.ID,
		OwnerID:     order.OwnerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		OccurredAt:  time.Now().UTC(),
	}
	if err := publisher.PublishJSON(eventType, event); err != nil {
		log.Printf("Warning: Failed to publish %s event for order %s: %v", eventType, order.ID, err)
	}
}
