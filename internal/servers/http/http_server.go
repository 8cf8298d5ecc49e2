package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"rentalChat/configs"
	_ "rentalChat/docs"
	"rentalChat/internal/errs"
	"rentalChat/internal/handlers"
	"rentalChat/internal/hub"
	"rentalChat/internal/logger"
	"rentalChat/internal/models"
	"rentalChat/internal/msgs"
	"syscall"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

type HttpServer struct {
	config            *configs.Config
	log               *zap.Logger
	registry          *hub.Registry
	router            *gin.Engine
	handler           *handlers.Handler
	restHandler       *handlers.RestHandler
	socketChatHandler *handlers.SocketChatHandler
}

func NewHttpServer(
	config *configs.Config,
	log *zap.Logger,
	registry *hub.Registry,
	handler *handlers.Handler,
	restHandler *handlers.RestHandler,
	socketChatHandler *handlers.SocketChatHandler,
) *HttpServer {
	hs := &HttpServer{
		config:            config,
		log:               log,
		registry:          registry,
		handler:           handler,
		restHandler:       restHandler,
		socketChatHandler: socketChatHandler,
	}

	hs.initializeGin()
	hs.setupRestfulRoutes()
	hs.setupSocketRoutes()
	hs.setupSwaggerRoutes()
	return hs
}

func (hs *HttpServer) Router() *gin.Engine {
	return hs.router
}

// Run serves until ctx is cancelled or the process receives SIGINT or
// SIGTERM, then drains requests and closes live sockets.
func (hs *HttpServer) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", hs.config.Viper.GetInt("server.port")),
		Handler:      hs.router,
		ReadTimeout:  hs.config.Viper.GetDuration("server.read_timeout"),
		WriteTimeout: hs.config.Viper.GetDuration("server.write_timeout"),
	}

	serveErr := make(chan error, 1)
	go func() {
		hs.log.Info("http server started", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	return hs.waitForShutdown(ctx, server, serveErr)
}

func (hs *HttpServer) waitForShutdown(ctx context.Context, server *http.Server, serveErr <-chan error) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case err, ok := <-serveErr:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	hs.log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), hs.config.Viper.GetDuration("server.shutdown_timeout"))
	defer cancel()
	err := server.Shutdown(shutdownCtx)

	// Shutdown does not track hijacked connections.
	hs.registry.CloseAll()
	hs.log.Info("server exiting")
	return err
}

func (hs *HttpServer) initializeGin() {
	if hs.config.Viper.GetString("app.env") != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	hs.router = gin.New()
	hs.router.Use(
		logger.GinMiddleware(hs.log),
		gin.CustomRecovery(hs.recover),
		hs.limitBody(hs.config.Viper.GetInt64("server.max_body_bytes")),
	)
}

func (hs *HttpServer) recover(ctx *gin.Context, recovered interface{}) {
	hs.log.Error("panic recovered",
		zap.String("route", ctx.FullPath()),
		zap.Any("panic", recovered),
	)
	ctx.AbortWithStatusJSON(http.StatusInternalServerError, models.Response{
		Success: false,
		Message: msgs.MsgOperationFailed,
		Errors:  []error{errs.ErrStoreFailure},
	})
}

func (hs *HttpServer) limitBody(maxBytes int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if maxBytes > 0 && ctx.Request.Body != nil {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, maxBytes)
		}
		ctx.Next()
	}
}

func (hs *HttpServer) setupRestfulRoutes() {
	hs.router.GET("/healthz", hs.restHandler.Health)
	hs.router.POST("/api/auth/login", hs.handler.Login)

	chat := hs.router.Group("/api/chat")

	// Sends accept anonymous callers; a supplied credential must match
	// the sender.
	optional := chat.Group("", hs.handler.OptionalAuthenticateMiddleware())
	optional.POST("/send", hs.restHandler.Send)
	optional.POST("/reply/:messageId", hs.restHandler.Reply)

	secured := chat.Group("", hs.handler.MustAuthenticateMiddleware())
	secured.GET("/messages/recent/:userId", hs.restHandler.FetchInbox)
	secured.GET("/messages/admin/:adminId/:userId", hs.restHandler.FetchDirectThread)
	secured.GET("/messages/:rental_id", hs.restHandler.FetchConversation)
	secured.GET("/threads/:messageId", hs.restHandler.FetchThread)
	secured.GET("/presence/:userId", hs.restHandler.Presence)
	secured.POST("/attachments", hs.restHandler.UploadAttachment)
}

func (hs *HttpServer) setupSocketRoutes() {
	hs.router.GET("/ws", hs.socketChatHandler.HandleSocketChatRoute)
}

func (hs *HttpServer) setupSwaggerRoutes() {
	hs.router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
