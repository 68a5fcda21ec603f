package queue

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"
)

const EventsQueue = "crm_events"

// MaxRetries caps how often a failed event is requeued before it is dropped.
const MaxRetries = 3

const retryHeader = "x-retry-count"

// RetryCount reads the retry header from a delivery. AMQP field tables carry
// integers as int32 or int64 depending on the publisher, so tolerate all of
// them; anything else counts as zero.
func RetryCount(headers amqp.Table) int {
	switch v := headers[retryHeader].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	default:
		return 0
	}
}

// Event is the fire-and-forget automation payload published after an inbound
// message lands. Consumers must tolerate duplicates: webhook redelivery plus
// at-least-once queue semantics mean the same message id can show up twice.
type Event struct {
	Type      string `json:"type"` // message.received
	Channel   string `json:"channel"`
	ContactID int    `json:"contact_id"`
	ThreadID  int    `json:"thread_id"`
	MessageID int    `json:"message_id"`
}

// Publisher is what the inbound pipeline needs. Kept small so tests can use
// an in-memory fake.
type Publisher interface {
	Publish(ev Event) error
}

type AMQPQueue struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

func NewAMQPQueue(url string) (*AMQPQueue, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		EventsQueue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &AMQPQueue{conn: conn, channel: ch}, nil
}

func (q *AMQPQueue) Publish(ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return q.channel.Publish(
		"",
		EventsQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Republish puts a failed delivery back on the queue with the retry header
// bumped. A plain Nack requeue would keep the original headers, so the retry
// cap would never engage.
func (q *AMQPQueue) Republish(body []byte, retryCount int) error {
	return q.channel.Publish(
		"",
		EventsQueue,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Headers:     amqp.Table{retryHeader: int32(retryCount)},
			Body:        body,
		},
	)
}

// Consume registers a consumer with manual acks, for cmd/worker.
func (q *AMQPQueue) Consume() (<-chan amqp.Delivery, error) {
	return q.channel.Consume(
		EventsQueue,
		"",
		false, // autoAck = false for reliability
		false,
		false,
		false,
		nil,
	)
}

func (q *AMQPQueue) Close() {
	q.channel.Close()
	q.conn.Close()
}

var _ Publisher = (*AMQPQueue)(nil)
