// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	chatfeature "github.com/dalemusser/colloquy/internal/app/features/chat"
	healthfeature "github.com/dalemusser/colloquy/internal/app/features/health"
	papersfeature "github.com/dalemusser/colloquy/internal/app/features/papers"
	sessionsfeature "github.com/dalemusser/colloquy/internal/app/features/sessions"
	"github.com/dalemusser/colloquy/internal/app/system/auth"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Colloquy mounts the health endpoint
// and the JSON API for sessions, messages, and papers. The caller
// middleware annotates every request with either the authenticated user
// or a per-visitor id; it never rejects anyone, since all operations
// are open to anonymous callers.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()

	// Loads the caller identity (user or visitor uuid) into context on
	// every request.
	r.Use(sessionMgr.LoadCaller)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.ColloquyMongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	db := deps.ColloquyMongoDatabase

	chatHandler := chatfeature.NewHandler(db, logger)
	papersHandler := papersfeature.NewHandler(db, logger)

	sessionsHandler := sessionsfeature.NewHandler(db, appCfg.DefaultGroupName, logger)
	r.Mount("/api/sessions", sessionsfeature.Routes(sessionsHandler,
		chatfeature.Routes(chatHandler),
		papersfeature.SessionRoutes(papersHandler)))

	r.Mount("/api/papers", papersfeature.Routes(papersHandler))

	return r, nil
}
