package queue

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/cinebook/internal/model"
)

// Publisher sends booking confirmations to RabbitMQ.  Each publish opens
// its own connection, so a broker outage never outlives one call.
type Publisher struct {
	url string
	log *slog.Logger
}

// NewPublisher returns a publisher for the broker at url.
func NewPublisher(url string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Publisher{url: url, log: logger}
}

// Publish sends the booking.confirmed event for b.  Errors are logged and
// returned so the caller can choose to ignore them.  Messages are
// persistent.
func (p *Publisher) Publish(ctx context.Context, b model.Booking) error {
	return p.PublishEvent(ctx, NewBookingConfirmed(b))
}

func (p *Publisher) PublishEvent(ctx context.Context, event BookingConfirmedEvent) error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		BookingQueue, // name
		true,         // durable
		false,        // autoDelete
		false,        // exclusive
		false,        // noWait
		nil,          // args
	); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", BookingQueue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", "err", err, "booking_id", event.BookingID)
		return err
	}
	return nil
}
