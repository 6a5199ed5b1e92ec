package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"

    q "github.com/iliyamo/seat-arbiter/internal/queue"
)

// AMQPPublisher publishes seat.booked events to RabbitMQ.  Each publish
// dials its own connection, which keeps the publisher stateless; bookings
// are rare enough for that to be cheap.
type AMQPPublisher struct {
    URL string
}

// NewAMQPPublisher returns a publisher for the broker at url.
func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{URL: url} }

// defaultDialTimeout bounds the dial when ctx has no deadline.
const defaultDialTimeout = 30 * time.Second

// dialTimeout is the time left before ctx's deadline, or the default.
func dialTimeout(ctx context.Context) time.Duration {
    deadline, ok := ctx.Deadline()
    if !ok {
        return defaultDialTimeout
    }
    if left := time.Until(deadline); left > time.Millisecond {
        return left
    }
    return time.Millisecond
}

// PublishSeatBooked sends event to the durable seat.booked queue as a
// persistent JSON message.
func (p *AMQPPublisher) PublishSeatBooked(ctx context.Context, event q.SeatBookedEvent) error {
    if err := ctx.Err(); err != nil {
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    conn, err := amqp.DialConfig(p.URL, amqp.Config{
        Heartbeat: 10 * time.Second,
        Locale:    "en_US",
        Dial:      amqp.DefaultDial(dialTimeout(ctx)),
    })
    if err != nil {
        return fmt.Errorf("rabbitmq dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(
        q.SeatBookedQueue, // name
        true,              // durable
        false,             // autoDelete
        false,             // exclusive
        false,             // noWait
        nil,               // args
    ); err != nil {
        return fmt.Errorf("rabbitmq queue declare: %w", err)
    }

    body, err := json.Marshal(event)
    if err != nil {
        return fmt.Errorf("marshal event: %w", err)
    }

    pub := amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent, // store on disk
        MessageId:    event.EventID,
        Timestamp:    time.Now().UTC(),
        Body:         body,
    }
    if err := ch.PublishWithContext(ctx,
        "",                // default exchange
        q.SeatBookedQueue, // routing key = queue name
        false,             // mandatory
        false,             // immediate
        pub,
    ); err != nil {
        return fmt.Errorf("rabbitmq publish: %w", err)
    }
    return nil
}
