package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"meteo-server/internal/app"
	"meteo-server/internal/crawler"
)

// SnsCrawlWorker consumes crawl jobs from the queue and runs the SNS
// crawler outside the request path.
type SnsCrawlWorker struct {
	conn      *amqp.Connection
	crawler   *crawler.Crawler
	queueName string
	log       *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewSnsCrawlWorker(conn *amqp.Connection, crawler *crawler.Crawler, queueName string, log *zap.Logger) *SnsCrawlWorker {
	if log == nil {
		log = zap.NewNop()
	}
	return &SnsCrawlWorker{
		conn:      conn,
		crawler:   crawler,
		queueName: queueName,
		log:       log,
	}
}

func (w *SnsCrawlWorker) Start(ctx context.Context) error {
	if w.cancel != nil {
		return nil
	}

	workerCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	ch, err := w.conn.Channel()
	if err != nil {
		cancel()
		return fmt.Errorf("open worker channel failed: %w", err)
	}

	_, err = ch.QueueDeclare(
		w.queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("declare worker queue failed: %w", err)
	}

	deliveries, err := ch.Consume(
		w.queueName,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close()
		cancel()
		return fmt.Errorf("consume queue failed: %w", err)
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer ch.Close()

		for {
			select {
			case <-workerCtx.Done():
				return
			case d, ok := <-deliveries:
				if !ok {
					return
				}

				var job app.CrawlJob
				if err := json.Unmarshal(d.Body, &job); err != nil {
					w.log.Error("worker decode crawl job failed", zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}

				stored, err := w.crawler.Run(workerCtx, job.Source)
				if err != nil {
					w.log.Error("crawl run failed",
						zap.String("source", job.Source), zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}

				w.log.Info("crawl run finished",
					zap.String("source", job.Source), zap.Int("new_posts", stored))
				_ = d.Ack(false)
			}
		}
	}()

	return nil
}

func (w *SnsCrawlWorker) Close() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}
