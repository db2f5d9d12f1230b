package app

import (
	"context"
	"errors"
	"testing"

	"meteo-server/internal/model"
)

type fakeCrawlPublisher struct {
	jobs []CrawlJob
}

func (f *fakeCrawlPublisher) Publish(_ context.Context, job CrawlJob) error {
	f.jobs = append(f.jobs, job)
	return nil
}

func TestEnqueueCrawl(t *testing.T) {
	publisher := &fakeCrawlPublisher{}
	svc := NewSnsService(nil, publisher)

	if err := svc.EnqueueCrawl(context.Background(), model.SnsTypeTwitter); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if err := svc.EnqueueCrawl(context.Background(), model.SnsTypeNaverBlog); err != nil {
		t.Fatalf("enqueue failed: %v", err)
	}
	if len(publisher.jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(publisher.jobs))
	}
	if publisher.jobs[0].Source != model.SnsTypeTwitter || publisher.jobs[1].Source != model.SnsTypeNaverBlog {
		t.Errorf("unexpected jobs: %+v", publisher.jobs)
	}
}

func TestEnqueueCrawlUnknownSource(t *testing.T) {
	publisher := &fakeCrawlPublisher{}
	svc := NewSnsService(nil, publisher)

	err := svc.EnqueueCrawl(context.Background(), "FACEBOOK")
	if !errors.Is(err, ErrUnknownCrawlSource) {
		t.Fatalf("expected ErrUnknownCrawlSource, got %v", err)
	}
	if len(publisher.jobs) != 0 {
		t.Errorf("expected no jobs published, got %d", len(publisher.jobs))
	}
}
