package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "meteo-server/internal/app"
	"meteo-server/internal/bootstrap"
	"meteo-server/internal/cache"
	"meteo-server/internal/opendata"
	rabbitmqClient "meteo-server/internal/platform/rabbitmq"
	"meteo-server/internal/repository"
	"meteo-server/internal/transport/http/handler"
	"meteo-server/internal/transport/http/middleware"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	healthHandler := handler.NewHealthHandler(app)
	router.GET("/healthz", healthHandler.Check)

	accountRepo := repository.NewAccountRepository(app.MySQL)
	chatRepo := repository.NewChatRepository(app.MySQL, app.Config.Chat.LegacyMentorCredit, app.Logger)
	diaryRepo := repository.NewDiaryRepository(app.MySQL)
	snsRepo := repository.NewSnsRepository(app.MySQL)

	authService := appsvc.NewAuthService(
		accountRepo,
		app.Config.Auth.JWTSecret,
		time.Duration(app.Config.Auth.JWTExpireMinute)*time.Minute,
		app.Config.Chat.SignupHomi,
	)
	chatService := appsvc.NewChatService(chatRepo, accountRepo)
	mentorService := appsvc.NewMentorService(accountRepo)
	uploadService := appsvc.NewFileUploadService(app.Minio, app.Config.Minio.Bucket, app.Config.Minio.PublicBaseURL)
	diaryService := appsvc.NewDiaryService(diaryRepo, uploadService)
	crawlPublisher := rabbitmqClient.NewCrawlPublisher(app.MQConn, app.Config.RabbitMQ.SnsCrawlQueue)
	snsService := appsvc.NewSnsService(snsRepo, crawlPublisher)

	openDataService := opendata.NewService(opendata.ServiceConfig{
		MachineBaseURL:  app.Config.OpenData.MachineBaseURL,
		DataBaseURL:     app.Config.OpenData.DataBaseURL,
		NongsaroBaseURL: app.Config.OpenData.NongsaroBaseURL,
		WeatherBaseURL:  app.Config.OpenData.WeatherBaseURL,
		Keys: opendata.Keys{
			Machine:  app.Config.OpenData.MachineKey,
			Data:     app.Config.OpenData.DataKey,
			Nongsaro: app.Config.OpenData.NongsaroKey,
			Weather:  app.Config.OpenData.WeatherKey,
		},
	})
	openDataCache := cache.NewOpenDataCache(app.Redis, time.Duration(app.Config.Redis.OpenDataTTLSeconds)*time.Second)
	openDataClient := opendata.NewClient(openDataService, openDataCache, app.Logger)

	authHandler := handler.NewAuthHandler(authService)
	chatHandler := handler.NewChatHandler(chatService)
	mainHandler := handler.NewMainHandler(mentorService)
	diaryHandler := handler.NewDiaryHandler(diaryService)
	snsHandler := handler.NewSnsHandler(snsService)
	openDataHandler := handler.NewOpenDataHandler(openDataClient)

	authRequired := middleware.AuthJWT(app.Config.Auth.JWTSecret)

	v1 := router.Group("/api/v1")
	v1.GET("/main", mainHandler.Index)

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)
	authGroup.GET("/me", authRequired, authHandler.Me)

	chatGroup := v1.Group("/chat")
	chatGroup.Use(authRequired)
	chatGroup.POST("/messages", chatHandler.SendMessage)
	chatGroup.GET("/messages/:id", chatHandler.GetMessage)
	chatGroup.GET("/lists", chatHandler.ChatLists)
	chatGroup.POST("/lists", chatHandler.EnsureThread)
	chatGroup.GET("/lists/:chat_lists_id/messages", chatHandler.MessageLists)

	diaryGroup := v1.Group("/diaries")
	diaryGroup.GET("", diaryHandler.All)
	diaryGroup.GET("/:diary_srl", diaryHandler.Show)
	diaryGroup.GET("/mentee/:mentee_srl", diaryHandler.UserDiary)
	diaryGroup.POST("", authRequired, diaryHandler.Create)
	diaryGroup.PUT("/:diary_srl", authRequired, diaryHandler.Update)
	diaryGroup.DELETE("/:diary_srl", authRequired, diaryHandler.Destroy)

	snsGroup := v1.Group("/sns")
	snsGroup.GET("", snsHandler.List)
	snsGroup.POST("/crawl", authRequired, snsHandler.EnqueueCrawl)

	openAPIGroup := v1.Group("/open-api")
	openAPIGroup.GET("/machines", openDataHandler.Machines)
	openAPIGroup.GET("/dictionary", openDataHandler.Dictionary)
	openAPIGroup.GET("/special-crops", openDataHandler.SpecialCrops)
	openAPIGroup.GET("/empty-houses", openDataHandler.EmptyHouses)
	openAPIGroup.GET("/education-farms", openDataHandler.EducationFarms)
	openAPIGroup.GET("/education-farms/:cntntsNo", openDataHandler.EducationFarmsDetail)
	openAPIGroup.GET("/week-farm-info", openDataHandler.WeekFarmInfo)
	openAPIGroup.GET("/weather", openDataHandler.Weather)

	return router
}
