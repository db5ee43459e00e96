// Package consumer receives request events from RabbitMQ and feeds them
// to the listener for dispatch.
package consumer

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/formhive/form-service/internal/entity"
	"github.com/formhive/form-service/pkg/config"
	"github.com/formhive/form-service/pkg/logger"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	// EXCHANGE_TYPE routes messages to queues on exact routing key match
	EXCHANGE_TYPE = "direct"

	RECONNECT_DELAY = 5 * time.Second
)

// Consumer is a RabbitMQ client that consumes request events into a
// channel. It reconnects on its own when the broker connection drops.
type Consumer struct {
	conn        *amqp.Connection
	channel     *amqp.Channel
	logger      *logger.Logger
	cfg         *config.Config
	exchanges   map[string]bool // exchanges to redeclare after reconnect
	mu          sync.RWMutex
	isConnected bool
}

// Init creates a Consumer over an established connection and declares
// the request exchange.
func Init(cfg *config.Config, logger *logger.Logger, conn *amqp.Connection) (*Consumer, error) {
	if cfg == nil || logger == nil || conn == nil {
		return nil, fmt.Errorf("invalid parameters: cfg, logger, and conn cannot be nil")
	}

	consumer := &Consumer{
		conn:        conn,
		logger:      logger,
		cfg:         cfg,
		exchanges:   make(map[string]bool),
		isConnected: true,
	}

	channel, err := conn.Channel()
	if err != nil {
		logger.Error("failed to open channel", zap.Error(err))
		return nil, fmt.Errorf("failed to initialize channel: %w", err)
	}
	consumer.channel = channel

	if err := consumer.declareExchange(cfg.Exchange.Request); err != nil {
		consumer.cleanup()
		return nil, fmt.Errorf("failed to declare exchange: %w", err)
	}

	return consumer, nil
}

func (c *Consumer) declareExchange(exchangeName string) error {
	if err := c.channel.ExchangeDeclare(
		exchangeName,
		EXCHANGE_TYPE,
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,   // arguments
	); err != nil {
		c.logger.Error("failed to declare exchange",
			zap.String("exchange", exchangeName),
			zap.Error(err))
		return err
	}

	c.mu.Lock()
	c.exchanges[exchangeName] = true
	c.mu.Unlock()

	return nil
}

// Subscribe declares queueName and binds it to exchange under
// routingKey. Call once per request type before ConsumeMessages.
func (c *Consumer) Subscribe(exchange, routingKey, queueName string) error {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if !c.isConnected {
		return fmt.Errorf("consumer is not connected")
	}

	if _, err := c.channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	); err != nil {
		c.logger.Error("failed to declare queue",
			zap.String("queue", queueName),
			zap.Error(err))
		return fmt.Errorf("failed to declare queue %s: %w", queueName, err)
	}

	if err := c.channel.QueueBind(
		queueName,
		routingKey,
		exchange,
		false, // no-wait
		nil,   // arguments
	); err != nil {
		c.logger.Error("failed to bind queue to exchange",
			zap.String("queue", queueName),
			zap.String("exchange", exchange),
			zap.String("routing_key", routingKey),
			zap.Error(err))
		return fmt.Errorf("failed to bind queue %s to exchange %s: %w", queueName, exchange, err)
	}

	c.mu.Lock()
	c.exchanges[exchange] = true
	c.mu.Unlock()

	return nil
}

func (c *Consumer) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isConnected = false

	var errs []error

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			c.logger.Error("error closing channel", zap.Error(err))
			errs = append(errs, fmt.Errorf("channel close error: %w", err))
		}
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Error("error closing connection", zap.Error(err))
			errs = append(errs, fmt.Errorf("connection close error: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("errors during close: %v", errs)
	}

	return nil
}

func (c *Consumer) IsHealthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.isConnected && c.conn != nil && !c.conn.IsClosed()
}

// ConsumeMessages consumes request events into outputChan until the
// process exits, reconnecting with a delay whenever the connection or
// the delivery channel breaks. Run in its own goroutine.
func (c *Consumer) ConsumeMessages(outputChan chan entity.Event) {
	if outputChan == nil {
		c.logger.Error("output channel cannot be nil")
		return
	}

	for {
		if !c.IsHealthy() {
			c.logger.Warn("connection is unhealthy, attempting to reconnect...")
			if err := c.reconnect(); err != nil {
				c.logger.Error("failed to reconnect", zap.Error(err))
				time.Sleep(RECONNECT_DELAY)
				continue
			}
		}

		if err := c.consume(outputChan); err != nil {
			c.logger.Error("consuming stopped with error", zap.Error(err))
			time.Sleep(RECONNECT_DELAY)
		}
	}
}

func (c *Consumer) consume(outputChan chan entity.Event) error {
	msgs, err := c.channel.Consume(
		c.cfg.Queue.Request, // queue
		"",                  // consumer
		true,                // auto-ack
		false,               // exclusive
		false,               // no-local
		false,               // no-wait
		nil,                 // args
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	c.logger.Info("successfully connected to RabbitMQ, waiting for messages...")

	for msg := range msgs {
		event := new(entity.Event)
		if err := json.Unmarshal(msg.Body, event); err != nil {
			c.logger.Error("failed to unmarshal event",
				zap.Error(err),
				zap.ByteString("body", msg.Body))
			continue
		}

		c.logger.Debug("received new event",
			zap.String("event_id", event.ID),
			zap.String("routing_key", event.Type),
			zap.Time("timestamp", event.Timestamp))

		select {
		case outputChan <- *event:
		default:
			c.logger.Warn("output channel is full, dropping message",
				zap.String("event_id", event.ID))
		}
	}

	return fmt.Errorf("message channel closed")
}

// reconnect re-establishes the connection and channel and redeclares
// every exchange seen so far.
func (c *Consumer) reconnect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cleanup()

	conn, err := amqp.Dial(c.cfg.Urls.Rabbitmq)
	if err != nil {
		return fmt.Errorf("failed to dial RabbitMQ: %w", err)
	}
	c.conn = conn

	channel, err := conn.Channel()
	if err != nil {
		c.conn.Close()
		return err
	}
	c.channel = channel

	for exchange := range c.exchanges {
		if err := c.channel.ExchangeDeclare(
			exchange, EXCHANGE_TYPE, true, false, false, false, nil,
		); err != nil {
			c.cleanup()
			return fmt.Errorf("failed to redeclare exchange %s: %w", exchange, err)
		}
	}

	c.isConnected = true
	c.logger.Info("successfully reconnected to RabbitMQ")
	return nil
}

func (c *Consumer) cleanup() {
	c.isConnected = false

	if c.channel != nil {
		c.channel.Close()
		c.channel = nil
	}

	if c.conn != nil {
		c.conn.Close()
		c.conn = nil
	}
}
