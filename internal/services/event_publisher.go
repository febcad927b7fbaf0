package services

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
	"github.com/seyniss/business-backend/internal/config"
	"github.com/seyniss/business-backend/internal/models"
)

const bookingEventQueue = "booking.events"

// BookingEvent is the wire format for booking lifecycle events
type BookingEvent struct {
	Event          string               `json:"event"`
	BookingID      string               `json:"booking_id"`
	RoomID         string               `json:"room_id"`
	BusinessID     string               `json:"business_id"`
	Status         models.BookingStatus `json:"status"`
	PreviousStatus models.BookingStatus `json:"previous_status,omitempty"`
	PaymentStatus  models.PaymentStatus `json:"payment_status"`
	OccurredAt     time.Time            `json:"occurred_at"`
}

// AMQPEventPublisher publishes booking lifecycle events to RabbitMQ. Publish
// failures never interrupt the request flow; they are logged and dropped.
// A disabled publisher is a no-op.
type AMQPEventPublisher struct {
	config config.AMQPConfig
	logger *logrus.Logger
}

// NewAMQPEventPublisher creates a new AMQPEventPublisher
func NewAMQPEventPublisher(cfg config.AMQPConfig, logger *logrus.Logger) *AMQPEventPublisher {
	return &AMQPEventPublisher{config: cfg, logger: logger}
}

// BookingCreated publishes a booking.created event
func (p *AMQPEventPublisher) BookingCreated(booking *models.Booking) {
	p.publish(BookingEvent{
		Event:         "booking.created",
		BookingID:     booking.ID,
		RoomID:        booking.RoomID,
		BusinessID:    booking.BusinessID,
		Status:        booking.Status,
		PaymentStatus: booking.PaymentStatus,
		OccurredAt:    time.Now().UTC(),
	})
}

// BookingStatusChanged publishes a booking.status_changed event
func (p *AMQPEventPublisher) BookingStatusChanged(booking *models.Booking, previous models.BookingStatus) {
	p.publish(BookingEvent{
		Event:          "booking.status_changed",
		BookingID:      booking.ID,
		RoomID:         booking.RoomID,
		BusinessID:     booking.BusinessID,
		Status:         booking.Status,
		PreviousStatus: previous,
		PaymentStatus:  booking.PaymentStatus,
		OccurredAt:     time.Now().UTC(),
	})
}

func (p *AMQPEventPublisher) publish(event BookingEvent) {
	if !p.config.Enabled {
		return
	}

	conn, err := amqp.Dial(p.config.URL)
	if err != nil {
		p.logger.WithError(err).Warn("Event publish skipped: broker dial failed")
		return
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		p.logger.WithError(err).Warn("Event publish skipped: channel open failed")
		return
	}
	defer ch.Close()

	// Durable queue, declared idempotently on every publish
	_, err = ch.QueueDeclare(bookingEventQueue, true, false, false, false, nil)
	if err != nil {
		p.logger.WithError(err).Warn("Event publish skipped: queue declare failed")
		return
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.logger.WithError(err).Warn("Event publish skipped: marshal failed")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = ch.PublishWithContext(ctx, "", bookingEventQueue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    event.OccurredAt,
		Body:         body,
	})
	if err != nil {
		p.logger.WithError(err).Warn("Event publish failed")
		return
	}

	p.logger.WithFields(logrus.Fields{
		"event":      event.Event,
		"booking_id": event.BookingID,
	}).Debug("Booking event published")
}
