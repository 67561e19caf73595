package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"llmchat/chat"
	"llmchat/common"
	"llmchat/llm"
	"llmchat/srv"
)

// anonymousUserId scopes requests that carry no X-User-Id header. Single-user
// deployments never need to set the header at all.
const anonymousUserId = "anonymous"

func RunServer(ctrl Controller) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := DefineRoutes(ctrl)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", common.GetServerPort()),
		Handler: router.Handler(),
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start API server")
		}
	}()

	return srv
}

type Controller struct {
	service *chat.Service
	storage srv.Storage
	streams *streamRegistry
}

func NewController(service *chat.Service, storage srv.Storage) (Controller, error) {
	if err := storage.CheckConnection(context.Background()); err != nil {
		return Controller{}, fmt.Errorf("failed to connect to storage: %w", err)
	}
	return Controller{
		service: service,
		storage: storage,
		streams: newStreamRegistry(),
	}, nil
}

func DefineRoutes(ctrl Controller) *gin.Engine {
	r := gin.Default()
	r.ForwardedByClientIP = true
	r.SetTrustedProxies(nil)
	r.Use(otelgin.Middleware("llmchat"))

	allowedOrigins, err := GetAllowedOrigins()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to parse allowed origins")
	}
	r.Use(CORSMiddleware(allowedOrigins))

	v1 := r.Group("/api/v1")
	v1.POST("/chat", ctrl.ChatHandler)
	v1.POST("/chat/stream", ctrl.ChatStreamHandler)

	conversationRoutes := v1.Group("/conversations")
	conversationRoutes.GET("", ctrl.GetConversationsHandler)
	conversationRoutes.GET("/:id", ctrl.GetConversationHandler)
	conversationRoutes.PUT("/:id", ctrl.RenameConversationHandler)
	conversationRoutes.DELETE("/:id", ctrl.DeleteConversationHandler)
	conversationRoutes.POST("/:id/stop", ctrl.StopStreamHandler)

	v1.GET("/usage", ctrl.GetUsageSummaryHandler)

	r.GET("/healthz", ctrl.HealthHandler)

	return r
}

// ErrorHandler translates service errors to HTTP statuses.
func (ctrl *Controller) ErrorHandler(c *gin.Context, err error) {
	log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Request failed")

	var provErr *llm.ProviderError
	switch {
	case errors.Is(err, common.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, chat.ErrEmptyMessage),
		errors.Is(err, llm.ErrUnsupportedModel),
		errors.Is(err, llm.ErrInvalidMessageSequence):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &provErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (ctrl *Controller) HealthHandler(c *gin.Context) {
	if err := ctrl.storage.CheckConnection(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// userId resolves the requesting user. All storage access is scoped by it.
func userId(c *gin.Context) string {
	if id := c.GetHeader("X-User-Id"); id != "" {
		return id
	}
	return anonymousUserId
}
