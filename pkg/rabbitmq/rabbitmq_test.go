package rabbitmq

import (
	"testing"

	"github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	Type    string `json:"type"`
	OrderID string `json:"order_id"`
}

func TestDecodeOrderEvent(t *testing.T) {
	msg := amqp.Delivery{
		ContentType: "application/json",
		RoutingKey:  "order.created",
		Body:        []byte(`{"type":"order.created","order_id":"o-1"}`),
	}

	var event testEvent
	require.NoError(t, DecodeOrderEvent(msg, &event))
	assert.Equal(t, "order.created", event.Type)
	assert.Equal(t, "o-1", event.OrderID)
}

func TestDecodeOrderEvent_Rejects(t *testing.T) {
	var event testEvent

	err := DecodeOrderEvent(amqp.Delivery{ContentType: "text/plain", Body: []byte("hi")}, &event)
	assert.Error(t, err)

	err = DecodeOrderEvent(amqp.Delivery{ContentType: "application/json", Body: []byte("{")}, &event)
	assert.Error(t, err)
}

func TestPublish_WithoutChannel(t *testing.T) {
	client := &Client{exchange: DefaultExchange}
	assert.Error(t, client.PublishJSON("order.created", map[string]string{"order_id": "o-1"}))
}
