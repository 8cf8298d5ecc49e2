package app

import (
	"context"
	"rentalChat/configs"
	"rentalChat/internal/handlers"
	"rentalChat/internal/hub"
	"rentalChat/internal/interfaces"
	"rentalChat/internal/logger"
	"rentalChat/internal/repositories"
	"rentalChat/internal/servers/database"
	"rentalChat/internal/servers/http"
	"rentalChat/internal/services"
	"rentalChat/internal/utils"
	"sync"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	app  *App
	once sync.Once
)

type App struct {
	redis   *redis.Client
	ctx     context.Context
	configs *configs.Config
	log     *zap.Logger
}

func GetApp() *App {
	once.Do(func() {
		app = &App{}
	})
	return app
}

func (app *App) LetsGo() {
	app.ctx = context.Background()
	app.initializeConfigs()
	app.initializeLogger()
	defer func() { _ = app.log.Sync() }()
	app.initializeRedis()
	defer func() { _ = app.redis.Close() }()

	db, err := database.GetDB(app.configs, app.log)
	if err != nil {
		app.log.Fatal("database unavailable", zap.Error(err))
	}
	queryTimeout := app.configs.Viper.GetDuration("database.query_timeout")

	chatRepo := repositories.NewChatRepository(db, queryTimeout)
	userRepo := repositories.NewUserRepository(db, queryTimeout)
	rentalRepo := repositories.NewRentalRepository(
		db,
		queryTimeout,
		app.redis,
		app.configs.Viper.GetDuration("redis.rental_owner_ttl"),
		app.log,
	)

	registry := hub.NewRegistry(app.log.Named("hub"))
	authService := services.NewAuthenticationService(userRepo, app.configs)
	accessPolicy := services.NewAccessPolicy(userRepo, rentalRepo, chatRepo)
	chatService := services.NewChatService(chatRepo, accessPolicy, registry, app.log.Named("chat"))
	presenceService := services.NewPresenceService(app.redis, app.configs.Viper.GetDuration("redis.presence_ttl"))
	fileManagerService := services.NewFileManagerService(
		app.initializeFileManager(),
		app.configs.Viper.GetInt64("minio.max_upload_bytes"),
	)

	handler := handlers.NewHandler(authService, app.log)
	restHandler := handlers.NewRestHandler(
		chatService,
		presenceService,
		fileManagerService,
		registry,
		app.log,
	)
	socketChatHandler := handlers.NewSocketChatHandler(
		authService,
		chatService,
		presenceService,
		registry,
		app.configs,
		app.log.Named("socket"),
	)

	err = http.NewHttpServer(
		app.configs,
		app.log,
		registry,
		handler,
		restHandler,
		socketChatHandler,
	).Run(app.ctx)
	if err != nil {
		app.log.Error("server stopped", zap.Error(err))
	}
}

func (app *App) initializeConfigs() {
	config, err := configs.GetConfig()
	if err != nil {
		panic(err)
	}
	app.configs = config
}

func (app *App) initializeLogger() {
	log, err := logger.New(logger.Config{
		Development: app.configs.Viper.GetString("app.env") == "development",
	})
	if err != nil {
		panic(err)
	}
	app.log = log

	if app.configs.Viper.GetString("jwt.secret") == "" {
		// Tokens signed with a generated key do not survive a restart.
		app.configs.Viper.Set("jwt.secret", utils.GenerateSecretKey())
		app.log.Warn("jwt.secret is not configured, using a random key")
	}
}

func (app *App) initializeRedis() {
	app.redis = redis.NewClient(&redis.Options{
		Addr:     app.configs.Viper.GetString("redis.addr"),
		Password: app.configs.Viper.GetString("redis.password"),
		DB:       app.configs.Viper.GetInt("redis.db"),
	})
	if err := app.redis.Ping(app.ctx).Err(); err != nil {
		app.log.Warn("redis unavailable, presence and owner cache degraded", zap.Error(err))
	}
}

// initializeFileManager returns nil when object storage is disabled,
// which turns attachment uploads off.
func (app *App) initializeFileManager() interfaces.FileManager {
	if !app.configs.Viper.GetBool("minio.enabled") {
		return nil
	}
	minioService, err := services.NewMinioService(app.ctx, app.configs, app.log)
	if err != nil {
		app.log.Error("object storage unavailable, attachments disabled", zap.Error(err))
		return nil
	}
	return minioService
}
