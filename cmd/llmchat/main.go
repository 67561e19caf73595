package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"llmchat/api"
	"llmchat/chat"
	"llmchat/common"
	"llmchat/llm"
	"llmchat/logger"
	"llmchat/secret_manager"
	"llmchat/srv/sqlite"
	"llmchat/telemetry"
)

const fallbackDefaultModel = "gpt-4o-mini"

func main() {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Fatal().Err(err).Msg("Error loading .env file")
		}
	}
	log.Logger = logger.Get()

	shutdownTracer, err := telemetry.InitTracer("llmchat")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize tracer")
	}

	config, err := common.GetLocalConfig(common.GetDefaultConfigPath())
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}

	dataHome, err := common.GetLlmchatDataHome()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to resolve data home")
	}
	db, err := sqlite.Open(filepath.Join(dataHome, "llmchat.db"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open database")
	}
	if err := sqlite.Migrate(db, "llmchat"); err != nil {
		log.Fatal().Err(err).Msg("Failed to migrate database")
	}
	storage := sqlite.NewStorage(db)

	secrets := secret_manager.NewCompositeSecretManager(
		secret_manager.KeyringSecretManager{},
		secret_manager.EnvSecretManager{},
	)

	router := buildRouter(context.Background(), secrets, config)

	defaultModel := config.DefaultModel
	if defaultModel == "" {
		defaultModel = fallbackDefaultModel
	}
	service := chat.NewService(storage, router, defaultModel)

	ctrl, err := api.NewController(service, storage)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize controller")
	}

	server := api.RunServer(ctrl)
	log.Info().Int("port", common.GetServerPort()).Str("defaultModel", defaultModel).Msg("Chat server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}
	if err := shutdownTracer(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Tracer shutdown failed")
	}
	if err := db.Close(); err != nil {
		log.Error().Err(err).Msg("Database close failed")
	}
}

// buildRouter registers a provider for each model prefix whose API key is
// available. Missing keys just leave the prefix unrouted; the server still
// starts and reports unsupported models per request.
func buildRouter(ctx context.Context, secrets secret_manager.SecretManager, config common.LocalConfig) *llm.Router {
	router := llm.NewRouter()

	if key, err := secrets.GetSecret("OPENAI_API_KEY"); err == nil {
		router.Register("gpt", llm.NewOpenAIProvider("openai", key, ""))
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set, gpt models unavailable")
	}

	if key, err := secrets.GetSecret("ANTHROPIC_API_KEY"); err == nil {
		router.Register("claude", llm.NewAnthropicProvider(key, ""))
	} else {
		log.Warn().Msg("ANTHROPIC_API_KEY not set, claude models unavailable")
	}

	if key, err := secrets.GetSecret("DEEPSEEK_API_KEY"); err == nil {
		router.Register("deepseek", llm.NewOpenAIProvider("deepseek", key, "https://api.deepseek.com"))
	} else {
		log.Warn().Msg("DEEPSEEK_API_KEY not set, deepseek models unavailable")
	}

	if key, err := secrets.GetSecret("GEMINI_API_KEY"); err == nil {
		provider, err := llm.NewGoogleProvider(ctx, key)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize google provider")
		} else {
			router.Register("gemini", provider)
		}
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, gemini models unavailable")
	}

	for _, custom := range config.CustomProviders {
		secretName := strings.ToUpper(custom.Name) + "_API_KEY"
		key, err := secrets.GetSecret(secretName)
		if err != nil {
			log.Warn().Str("provider", custom.Name).Str("secret", secretName).Msg("API key not set, custom provider unavailable")
			continue
		}
		router.Register(custom.ModelPrefix, llm.NewOpenAIProvider(custom.Name, key, custom.BaseURL))
		log.Info().Str("provider", custom.Name).Str("modelPrefix", custom.ModelPrefix).Msg("Registered custom provider")
	}

	return router
}
