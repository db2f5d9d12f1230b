// Package crawler pulls the platform's social feeds (the RDA twitter
// account and the official naver blog) into the sns table.
package crawler

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"meteo-server/internal/model"
	"meteo-server/internal/opendata"
)

// twitterTimeFormat is the created_at layout of the v1.1 statuses API.
const twitterTimeFormat = "Mon Jan 02 15:04:05 -0700 2006"

// SnsStore persists crawled posts; Upsert reports whether the post was new.
type SnsStore interface {
	Upsert(post *model.Sns) (bool, error)
}

type Config struct {
	NaverBlogRSSURL    string
	TwitterAPIBaseURL  string
	TwitterBearerToken string
	TwitterScreenName  string
	TwitterCount       int
}

type Crawler struct {
	httpClient *http.Client
	store      SnsStore
	cfg        Config
	log        *zap.Logger
}

func New(store SnsStore, cfg Config, log *zap.Logger) *Crawler {
	if cfg.TwitterCount <= 0 {
		cfg.TwitterCount = 5
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Crawler{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		store:      store,
		cfg:        cfg,
		log:        log,
	}
}

// Run executes the crawl for one source and returns the number of new
// posts stored.
func (c *Crawler) Run(ctx context.Context, source string) (int, error) {
	switch source {
	case model.SnsTypeNaverBlog:
		return c.crawlNaverBlog(ctx)
	case model.SnsTypeTwitter:
		return c.crawlTwitter(ctx)
	}
	return 0, fmt.Errorf("unknown crawl source %q", source)
}

type rssFeed struct {
	XMLName xml.Name `xml:"rss"`
	Channel channel  `xml:"channel"`
}

type channel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

func (c *Crawler) crawlNaverBlog(ctx context.Context) (int, error) {
	raw, err := c.fetch(ctx, c.cfg.NaverBlogRSSURL, "")
	if err != nil {
		return 0, err
	}

	var feed rssFeed
	if err := xml.Unmarshal(raw, &feed); err != nil {
		return 0, fmt.Errorf("parse blog rss failed: %w", err)
	}

	stored := 0
	for _, item := range feed.Channel.Items {
		createdAt, err := time.Parse(time.RFC1123Z, item.PubDate)
		if err != nil {
			c.log.Warn("skip rss item with bad pubDate",
				zap.String("link", item.Link), zap.String("pub_date", item.PubDate))
			continue
		}

		created, err := c.store.Upsert(&model.Sns{
			SnsType:       model.SnsTypeNaverBlog,
			Text:          item.Title + "\n" + opendata.StripTags(item.Description),
			Link:          item.Link,
			TextCreatedAt: createdAt,
		})
		if err != nil {
			return stored, err
		}
		if created {
			stored++
		}
	}
	return stored, nil
}

type tweet struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"created_at"`
	User      struct {
		ScreenName string `json:"screen_name"`
	} `json:"user"`
}

func (c *Crawler) crawlTwitter(ctx context.Context) (int, error) {
	q := url.Values{}
	q.Set("screen_name", c.cfg.TwitterScreenName)
	q.Set("count", strconv.Itoa(c.cfg.TwitterCount))
	timelineURL := c.cfg.TwitterAPIBaseURL + "/statuses/user_timeline.json?" + q.Encode()

	raw, err := c.fetch(ctx, timelineURL, c.cfg.TwitterBearerToken)
	if err != nil {
		return 0, err
	}

	var timeline []tweet
	if err := json.Unmarshal(raw, &timeline); err != nil {
		return 0, fmt.Errorf("parse twitter timeline failed: %w", err)
	}

	stored := 0
	for _, t := range timeline {
		createdAt, err := time.Parse(twitterTimeFormat, t.CreatedAt)
		if err != nil {
			c.log.Warn("skip tweet with bad created_at",
				zap.Int64("tweet_id", t.ID), zap.String("created_at", t.CreatedAt))
			continue
		}

		created, err := c.store.Upsert(&model.Sns{
			SnsType:       model.SnsTypeTwitter,
			Text:          t.Text,
			Link:          fmt.Sprintf("https://twitter.com/%s/status/%d", t.User.ScreenName, t.ID),
			TextCreatedAt: createdAt,
		})
		if err != nil {
			return stored, err
		}
		if created {
			stored++
		}
	}
	return stored, nil
}

func (c *Crawler) fetch(ctx context.Context, rawURL, bearerToken string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build crawl request failed: %w", err)
	}
	if bearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+bearerToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("crawl request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read crawl response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("crawl status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, nil
}
