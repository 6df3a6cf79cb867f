package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/fe-select/backend/internal/carrier"
	"github.com/fe-select/backend/internal/config"
	"github.com/fe-select/backend/internal/db"
	"github.com/fe-select/backend/internal/forms"
	"github.com/fe-select/backend/internal/http/handlers"
	"github.com/fe-select/backend/internal/http/middleware"
	"github.com/fe-select/backend/internal/script"

	_ "github.com/fe-select/backend/docs"
)

func Router(cfg config.Config, store *db.Store, doc *script.Document, carriers []carrier.Carrier, submitter forms.Submitter, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Agent-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Script:    doc,
		Carriers:  carriers,
		Submitter: submitter,
		FormURL:   cfg.FormURL,
		Validator: validator.New(),
		Logger:    logger,
		AgentKey:  cfg.AgentKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/script", h.ScriptSections)
		api.POST("/script/:id/render", h.RenderSection)
		api.POST("/resolve", h.ResolveText)
		api.POST("/quotes", h.ComputeQuotes)
		api.GET("/carriers", h.CarriersList)
		api.GET("/carriers/:id", h.CarrierDetails)
		api.POST("/carriers/recommendations", h.CarrierRecommendations)
	}

	agent := api.Group("")
	agent.Use(middleware.AgentKey(cfg.AgentKey))
	{
		agent.POST("/agents", h.AgentUpsert)

		agent.POST("/sessions", h.SessionCreate)
		agent.GET("/sessions/:id", h.SessionGet)
		agent.PATCH("/sessions/:id/data", h.SessionPatchData)
		agent.POST("/sessions/:id/finish", h.SessionFinish)

		agent.POST("/leads", h.LeadCreate)
		agent.GET("/leads", h.LeadsList)
		agent.GET("/leads/:id", h.LeadGet)
		agent.PUT("/leads/:id", h.LeadUpdate)
		agent.DELETE("/leads/:id", h.LeadDelete)
		agent.POST("/leads/:id/quotes", h.LeadQuoteSave)
		agent.GET("/leads/:id/quotes", h.LeadQuotesList)

		agent.POST("/forms/prefill", h.FormPrefill)
		agent.POST("/forms/submit", h.FormSubmit)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
