package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog/log"

	"github.com/refi-protocol/withdraw-api-service/internal/config"
	"github.com/refi-protocol/withdraw-api-service/internal/observability/metrics"
)

// Publisher sends settlement events to RabbitMQ. Publishing is strictly
// best-effort: a failed publish is logged and counted, never propagated
// into the reconciliation cycle.
type Publisher interface {
	PublishWithdrawalSettled(ctx context.Context, event *WithdrawalSettledEvent)
	Close() error
}

type amqpPublisher struct {
	conn      *amqp.Connection
	channel   *amqp.Channel
	queueName string
}

// NewPublisher connects to the broker and declares the settlement queue.
// When publishing is disabled in config, a no-op publisher is returned so
// callers do not need to branch.
func NewPublisher(cfg *config.QueueConfig) (Publisher, error) {
	if !cfg.Enabled {
		return &noopPublisher{}, nil
	}

	amqpURI := fmt.Sprintf("amqp://%s:%s@%s", cfg.QueueUser, cfg.QueuePassword, cfg.Url)
	conn, err := amqp.Dial(amqpURI)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to queue broker: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open a channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		cfg.QueueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	)
	if err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue %s: %w", cfg.QueueName, err)
	}

	return &amqpPublisher{
		conn:      conn,
		channel:   ch,
		queueName: cfg.QueueName,
	}, nil
}

func (p *amqpPublisher) PublishWithdrawalSettled(ctx context.Context, event *WithdrawalSettledEvent) {
	body, err := json.Marshal(event)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("requestId", event.RequestId).
			Msg("failed to marshal settlement event")
		metrics.RecordEventPublish(metrics.Error)
		return
	}

	err = p.channel.PublishWithContext(
		ctx,
		"",          // default exchange
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Str("requestId", event.RequestId).
			Msg("failed to publish settlement event")
		metrics.RecordEventPublish(metrics.Error)
		return
	}

	metrics.RecordEventPublish(metrics.Success)
}

func (p *amqpPublisher) Close() error {
	if err := p.channel.Close(); err != nil {
		return err
	}
	return p.conn.Close()
}

type noopPublisher struct{}

func (p *noopPublisher) PublishWithdrawalSettled(ctx context.Context, event *WithdrawalSettledEvent) {
}

func (p *noopPublisher) Close() error {
	return nil
}
