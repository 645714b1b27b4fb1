package mailqueue

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	amqp "github.com/streadway/amqp"
)

const queueName = "email_queue"

// Message is one email waiting for background delivery.
type Message struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Config holds RabbitMQ connection details.
type Config struct {
	URL string
}

// Client holds the RabbitMQ connection and channel used to queue outbound
// email for background delivery, keeping mail relays off the request path.
type Client struct {
	conn    *amqp.Connection
	channel *amqp.Channel
}

// NewClient connects to RabbitMQ and declares the durable email queue.
func NewClient(cfg Config) (*Client, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close() // Close connection if channel creation fails
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		queueName, // name
		true,      // durable (persists messages across broker restarts)
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare %s: %w", queueName, err)
	}

	log.Printf("RabbitMQ client connected and %s declared.", queueName)

	return &Client{
		conn:    conn,
		channel: ch,
	}, nil
}

// Close closes the RabbitMQ connection and channel.
func (c *Client) Close() error {
	var errs []error
	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close channel: %w", err))
		}
	}
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close connection: %w", err))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("multiple errors occurred during mail queue close: %v", errs)
	}
	return nil
}

// Enqueue publishes an email message to the queue as a persistent JSON body.
func (c *Client) Enqueue(to, subject, html string) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available")
	}

	body, err := json.Marshal(Message{To: to, Subject: subject, HTML: html})
	if err != nil {
		return fmt.Errorf("failed to marshal mail message to JSON: %w", err)
	}

	err = c.channel.Publish(
		"",        // exchange: default exchange
		queueName, // routing key: the queue name
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
		})
	if err != nil {
		return fmt.Errorf("failed to publish mail message: %w", err)
	}
	return nil
}

// Consume starts a goroutine delivering queued messages to the handler. A
// handler error nacks the message back onto the queue; success acks it.
func (c *Client) Consume(handler func(msg Message) error) error {
	if c.channel == nil {
		return fmt.Errorf("RabbitMQ channel is not available for consumption")
	}

	queue, err := c.channel.QueueDeclare(
		queueName, // name
		true,      // durable
		false,     // delete when unused
		false,     // exclusive
		false,     // no-wait
		nil,       // arguments
	)
	if err != nil {
		return fmt.Errorf("failed to declare queue for consuming: %w", err)
	}

	msgs, err := c.channel.Consume(
		queue.Name, // queue
		"",         // consumer tag
		false,      // auto-ack: false, we acknowledge manually
		false,      // exclusive
		false,      // no-local
		false,      // no-wait
		nil,        // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	go func() {
		for delivery := range msgs {
			handleDelivery(delivery, handler)
		}
	}()

	return nil
}

// handleDelivery decodes and delivers one message, acknowledging it by
// outcome. A first failure is nacked back onto the queue for one more
// attempt; a failure on a redelivered message drops it, so a single bad
// message cannot spin in a requeue loop.
func handleDelivery(delivery amqp.Delivery, handler func(msg Message) error) {
	var msg Message
	if err := json.Unmarshal(delivery.Body, &msg); err != nil {
		log.Printf("Dropping malformed mail message %d: %v", delivery.DeliveryTag, err)
		if ackErr := delivery.Ack(false); ackErr != nil {
			log.Printf("Error acking message %d: %v", delivery.DeliveryTag, ackErr)
		}
		return
	}

	if err := handler(msg); err != nil {
		requeue := !delivery.Redelivered
		if requeue {
			log.Printf("Error delivering mail to %s, requeueing: %v", msg.To, err)
		} else {
			log.Printf("Dropping mail to %s after failed redelivery: %v", msg.To, err)
		}
		if nackErr := delivery.Nack(false, requeue); nackErr != nil {
			log.Printf("Error nacking message %d: %v", delivery.DeliveryTag, nackErr)
		}
		return
	}

	if ackErr := delivery.Ack(false); ackErr != nil {
		log.Printf("Error acking message %d: %v", delivery.DeliveryTag, ackErr)
	}
}
