package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/go-kv-server/auth"
	"github.com/jrsteele09/go-kv-server/discussions"
	"github.com/jrsteele09/go-kv-server/internal/config"
	"github.com/jrsteele09/go-kv-server/tenantstore"
	"github.com/jrsteele09/go-kv-server/token"
)

type Server struct {
	env         string // Environment (e.g., "development", "production")
	mux         *http.ServeMux
	routes      []string
	config      config.Config
	store       tenantstore.Provider
	credentials *auth.CredentialService
	tokens      *token.Creator
	discussions *discussions.Registry
	metrics     *metrics
}

func New(cfg config.Config, store tenantstore.Provider, registry *discussions.Registry) (*Server, error) {
	tokenCreator := token.NewCreator(token.NewHMACSigner(cfg.GetTokenSigningSecret()), cfg.GetTokenValidity())

	credentialService, err := auth.NewCredentialService(store, tokenCreator, cfg)
	if err != nil {
		return nil, fmt.Errorf("[Server New] failed to create credential service: %w", err)
	}

	s := &Server{
		mux:         http.NewServeMux(),
		config:      cfg,
		store:       store,
		credentials: credentialService,
		tokens:      tokenCreator,
		discussions: registry,
		metrics:     newMetrics(),
	}
	s.env = cfg.GetEnv()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

// RegisteredRoutes returns the patterns registered on the mux, for the
// debug route listing.
func (s *Server) RegisteredRoutes() []string {
	routes := make([]string, len(s.routes))
	copy(routes, s.routes)
	return routes
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)
		if len(parts) > 1 {
			log.Info().Str("method", parts[0]).Str("path", parts[1]).Msg("route")
		} else {
			log.Info().Str("path", parts[0]).Msg("route")
		}
	}
}
