package app

import (
	"context"
	"errors"

	"meteo-server/internal/model"
	"meteo-server/internal/repository"
)

var ErrUnknownCrawlSource = errors.New("unknown crawl source")

// CrawlJob is the payload published to the crawl queue.
type CrawlJob struct {
	Source string `json:"source"`
}

// CrawlPublisher enqueues a crawl job for the background worker.
type CrawlPublisher interface {
	Publish(ctx context.Context, job CrawlJob) error
}

type SnsService struct {
	snsRepo   *repository.SnsRepository
	publisher CrawlPublisher
}

func NewSnsService(snsRepo *repository.SnsRepository, publisher CrawlPublisher) *SnsService {
	return &SnsService{snsRepo: snsRepo, publisher: publisher}
}

// List returns the crawled feed ordered by source then recency.
func (s *SnsService) List() ([]model.Sns, error) {
	return s.snsRepo.List()
}

// EnqueueCrawl schedules a crawl run for one source.
func (s *SnsService) EnqueueCrawl(ctx context.Context, source string) error {
	switch source {
	case model.SnsTypeTwitter, model.SnsTypeNaverBlog:
	default:
		return ErrUnknownCrawlSource
	}
	return s.publisher.Publish(ctx, CrawlJob{Source: source})
}
