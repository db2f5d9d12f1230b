package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"meteo-server/internal/app"
)

type CrawlPublisher struct {
	conn      *amqp.Connection
	queueName string
}

func NewCrawlPublisher(conn *amqp.Connection, queueName string) *CrawlPublisher {
	return &CrawlPublisher{
		conn:      conn,
		queueName: queueName,
	}
}

func (p *CrawlPublisher) Publish(ctx context.Context, job app.CrawlJob) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel failed: %w", err)
	}
	defer ch.Close()

	_, err = ch.QueueDeclare(
		p.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("declare queue failed: %w", err)
	}

	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal crawl job failed: %w", err)
	}

	if err := ch.PublishWithContext(
		ctx,
		"",
		p.queueName,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         payload,
			DeliveryMode: amqp.Persistent,
		},
	); err != nil {
		return fmt.Errorf("publish crawl job failed: %w", err)
	}
	return nil
}
