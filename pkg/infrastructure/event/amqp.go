package event

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/Brendan777/Assignment2/pkg/domain/service"
)

const (
	ExchangeName = "shop_events"
	ExchangeType = "topic"

	dialAttempts = 5
	dialBackoff  = 2 * time.Second
)

// SetupConn dials the broker and declares the events exchange. The
// short retry loop covers the broker still starting up alongside us.
func SetupConn(url string) (*amqp.Connection, *amqp.Channel, error) {
	var conn *amqp.Connection
	var err error

	for i := 0; i < dialAttempts; i++ {
		conn, err = amqp.Dial(url)
		if err == nil {
			break
		}
		log.WithError(err).WithField("attempt", i+1).Warn("failed to connect to RabbitMQ")
		time.Sleep(dialBackoff)
	}
	if err != nil {
		return nil, nil, errors.Wrap(err, "connect to RabbitMQ")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, nil, errors.Wrap(err, "open channel")
	}

	if err := ch.ExchangeDeclare(ExchangeName, ExchangeType, true, false, false, false, nil); err != nil {
		return nil, nil, errors.Wrap(err, "declare exchange")
	}

	return conn, ch, nil
}

// AMQPDispatcher publishes domain events to the shop_events topic
// exchange as JSON, routed by event type (shop.orderaccepted, ...).
type AMQPDispatcher struct {
	ch *amqp.Channel
}

var _ service.EventDispatcher = &AMQPDispatcher{}

func NewAMQPDispatcher(ch *amqp.Channel) *AMQPDispatcher {
	return &AMQPDispatcher{ch: ch}
}

func (d *AMQPDispatcher) Dispatch(e service.Event) error {
	body, err := json.Marshal(e)
	if err != nil {
		return errors.Wrap(err, "marshal event")
	}

	routingKey := "shop." + strings.ToLower(e.Type())
	return d.ch.PublishWithContext(context.Background(),
		ExchangeName,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
