package bootstrap

import (
	"context"
	"fmt"
	"time"

	miniogo "github.com/minio/minio-go/v7"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"meteo-server/internal/config"
	"meteo-server/internal/crawler"
	"meteo-server/internal/logger"
	"meteo-server/internal/model"
	minioClient "meteo-server/internal/platform/minio"
	mysqlClient "meteo-server/internal/platform/mysql"
	rabbitmqClient "meteo-server/internal/platform/rabbitmq"
	redisClient "meteo-server/internal/platform/redis"
	"meteo-server/internal/repository"
	"meteo-server/internal/worker"
)

type App struct {
	Config      *config.Config
	Logger      *zap.Logger
	MySQL       *gorm.DB
	Redis       *redis.Client
	MQConn      *amqp.Connection
	Minio       *miniogo.Client
	CrawlWorker *worker.SnsCrawlWorker

	StartedAt time.Time
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config failed: %w", err)
	}

	log, err := logger.New(cfg.Log.Dir, cfg.App.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger failed: %w", err)
	}

	mysqlDB, err := mysqlClient.New(ctx, cfg.MySQLDSN())
	if err != nil {
		return nil, err
	}
	err = mysqlClient.Migrate(mysqlDB,
		map[string]interface{}{
			"mentors": &model.Account{},
			"mentees": &model.Account{},
		},
		&model.ChatThread{}, &model.ChatMessage{}, &model.MenteeDiary{}, &model.Sns{},
	)
	if err != nil {
		return nil, err
	}

	redisCli, err := redisClient.New(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}

	mqConn, err := rabbitmqClient.New(ctx, cfg.RabbitMQ.URL)
	if err != nil {
		return nil, err
	}

	minioCli, err := minioClient.New(ctx, cfg.Minio.Endpoint, cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.Bucket)
	if err != nil {
		return nil, err
	}

	snsRepo := repository.NewSnsRepository(mysqlDB)
	snsCrawler := crawler.New(snsRepo, crawler.Config{
		NaverBlogRSSURL:    fmt.Sprintf("https://rss.blog.naver.com/%s.xml", cfg.Sns.NaverBlogID),
		TwitterAPIBaseURL:  cfg.Sns.TwitterAPIBaseURL,
		TwitterBearerToken: cfg.Sns.TwitterBearerToken,
		TwitterScreenName:  cfg.Sns.TwitterScreenName,
		TwitterCount:       cfg.Sns.TwitterCount,
	}, log)

	crawlWorker := worker.NewSnsCrawlWorker(mqConn, snsCrawler, cfg.RabbitMQ.SnsCrawlQueue, log)
	if err := crawlWorker.Start(ctx); err != nil {
		return nil, fmt.Errorf("start sns crawl worker failed: %w", err)
	}

	return &App{
		Config:      cfg,
		Logger:      log,
		MySQL:       mysqlDB,
		Redis:       redisCli,
		MQConn:      mqConn,
		Minio:       minioCli,
		CrawlWorker: crawlWorker,
		StartedAt:   time.Now(),
	}, nil
}

func (a *App) Close() error {
	var closeErr error
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			closeErr = err
		}
	}
	if a.CrawlWorker != nil {
		a.CrawlWorker.Close()
	}
	if a.MQConn != nil {
		if err := a.MQConn.Close(); err != nil {
			closeErr = err
		}
	}
	if a.MySQL != nil {
		sqlDB, err := a.MySQL.DB()
		if err == nil {
			if err := sqlDB.Close(); err != nil {
				closeErr = err
			}
		}
	}
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	return closeErr
}
