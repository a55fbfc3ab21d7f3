// Package core provides the API chassis for the courier service: a chi
// router with the cross-cutting middleware chain (recovery, request IDs,
// logging, compression, metrics, caller resolution) applied before requests
// reach domain handlers.
package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"courier/internal/acl"
	"courier/internal/config"
	"courier/internal/types"
)

// RoleSource loads the raw role set for a user, bypassing access control.
// Satisfied by db.UserRoleRepository.
type RoleSource interface {
	RolesForAuth(ctx context.Context, userID int64) ([]types.Role, error)
}

// Pinger reports storage liveness for the health endpoint. Satisfied by
// *pgxpool.Pool.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server bundles the dependencies of the HTTP layer. Routes are mounted by
// the entry point through RouteRegistrars, which keeps core free of handler
// imports.
type Server struct {
	Config     *config.Config
	Logger     *slog.Logger
	Validator  *Validator
	Metrics    *Metrics
	Roles      RoleSource
	RolesCache *acl.RolesCache
	DB         Pinger

	RouteRegistrars []func(chi.Router)

	router *chi.Mux
}

// NewServer initializes the chassis. The caller mounts routes afterwards via
// MountRoutes; that separation lets tests register their own.
func NewServer(cfg *config.Config, logger *slog.Logger, roles RoleSource, db Pinger) (*Server, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}

	return &Server{
		Config:     cfg,
		Logger:     logger,
		Validator:  NewValidator(logger),
		Metrics:    NewMetrics(cfg.Service),
		Roles:      roles,
		RolesCache: acl.NewRolesCache(),
		DB:         db,
		router:     chi.NewRouter(),
	}, nil
}

// Handler returns the router as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Router returns the underlying chi.Mux for route registration in tests.
func (s *Server) Router() *chi.Mux {
	return s.router
}
