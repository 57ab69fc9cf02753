package app

import (
	"context"
	"fmt"
	"time"

	"github.com/smallTechOrg/ai-agent-boilerplate/internal/config"
	db "github.com/smallTechOrg/ai-agent-boilerplate/internal/core/database"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/llm"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/core/workers"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/observability"
	"github.com/smallTechOrg/ai-agent-boilerplate/internal/services"
)

type App struct {
	DBClient db.DbClient
	Pool     *workers.Pool
	Server   *Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	appCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	log := observability.WithComponent("app")

	dbClient, err := db.NewDatabaseClient(appCtx, cfg)
	if err != nil {
		return nil, err
	}
	log.Info("database initialized and ready")

	provider, err := newLLMProvider(appCtx, cfg)
	if err != nil {
		_ = dbClient.Close()
		return nil, err
	}
	log.Info("LLM provider initialized", "provider", cfg.LLMProvider)

	pool := workers.NewPool(int64(cfg.WorkerPoolSize))

	promptSvc := services.NewPromptService(dbClient)
	extractor := services.NewLeadExtractor(dbClient, provider, promptSvc)
	chatSvc := services.NewChatService(dbClient, provider, promptSvc, extractor, pool)
	domainSvc := services.NewDomainService(dbClient)

	router := NewRouter(cfg, dbClient, chatSvc, domainSvc)
	server := NewServer(cfg, router)

	return &App{DBClient: dbClient, Pool: pool, Server: server}, nil
}

func (a *App) Close() {
	if a.Pool != nil {
		a.Pool.Shutdown(10 * time.Second)
	}
	if a.DBClient != nil {
		_ = a.DBClient.Close()
	}
}

func newLLMProvider(ctx context.Context, cfg *config.Config) (llm.Provider, error) {
	switch cfg.LLMProvider {
	case "groq":
		return llm.NewGroqLLM(cfg.GroqBaseURL, cfg.GroqAPIKey, cfg.GroqModel)
	case "gemini":
		return llm.NewGeminiLLM(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown LLM_PROVIDER %q", cfg.LLMProvider)
	}
}
