package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/sma-adp-admin/internal/middleware"
	"github.com/noah-isme/sma-adp-admin/internal/models"
	"github.com/noah-isme/sma-adp-admin/internal/service"
	"github.com/noah-isme/sma-adp-admin/internal/session"
	"github.com/noah-isme/sma-adp-admin/pkg/config"
	"github.com/noah-isme/sma-adp-admin/pkg/logger"
	"github.com/noah-isme/sma-adp-admin/pkg/middleware/requestid"
)

// RouterDeps bundles what the admin shell needs to serve requests.
type RouterDeps struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *service.MetricsService
	Sessions *session.Registry
	Exports  *service.ExportService
	Kinds    []models.Kind
}

// NewRouter wires middleware, pages and one view per record kind.
func NewRouter(deps RouterDeps) (*gin.Engine, error) {
	if deps.Config == nil || deps.Sessions == nil {
		return nil, fmt.Errorf("router requires config and sessions")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}

	tmpl, err := Templates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	r := gin.New()
	// Record ids are opaque and may contain escaped slashes.
	r.UseRawPath = true
	r.Use(gin.Recovery())
	r.Use(requestid.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(middleware.Metrics(deps.Metrics, deps.Config.Metrics.Path))
	r.SetHTMLTemplate(tmpl)

	metricsHandler := NewMetricsHandler(deps.Metrics, deps.Sessions)
	r.GET("/health", metricsHandler.Health)
	if deps.Config.Metrics.Enabled {
		r.GET(deps.Config.Metrics.Path, metricsHandler.Prometheus)
	}

	nav := make([]NavItem, 0, len(deps.Kinds)+1)
	for _, kind := range deps.Kinds {
		nav = append(nav, NavItem{Label: kind.Title + "s", Href: kind.Route})
	}
	nav = append(nav, NavItem{Label: "Profile", Href: "/profil"})

	ui := r.Group("/", middleware.Session(deps.Sessions, deps.Config.Session.CookieName, deps.Config.Session.TTL))

	pages := NewPageHandler(nav)
	ui.GET("/", pages.Login)
	ui.GET("/profil", pages.Profile)

	for _, kind := range deps.Kinds {
		NewViewHandler(kind, deps.Exports, nav).Register(ui)
	}

	return r, nil
}
