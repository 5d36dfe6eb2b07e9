// Package server exposes the billing engine over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/paswerklabs/paswerk/internal/config"
	invoicedomain "github.com/paswerklabs/paswerk/internal/invoice/domain"
	"github.com/paswerklabs/paswerk/internal/observability"
	ratesdomain "github.com/paswerklabs/paswerk/internal/rates/domain"
)

type Server struct {
	log        *zap.Logger
	invoiceSvc invoicedomain.Service
	ratesSvc   ratesdomain.Service
	metrics    *observability.Metrics
}

type ServerParam struct {
	fx.In

	Log        *zap.Logger
	InvoiceSvc invoicedomain.Service
	RatesSvc   ratesdomain.Service
	Metrics    *observability.Metrics `optional:"true"`
}

func NewServer(p ServerParam) *Server {
	return &Server{
		log:        p.Log.Named("server"),
		invoiceSvc: p.InvoiceSvc,
		ratesSvc:   p.RatesSvc,
		metrics:    p.Metrics,
	}
}

func (s *Server) Engine() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestID())
	engine.Use(requestLogger(s.log))

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if s.metrics != nil {
		engine.GET("/metrics", gin.WrapH(
			promhttp.HandlerFor(s.metrics.Registry, promhttp.HandlerOpts{}),
		))
	}

	v1 := engine.Group("/v1")
	{
		v1.POST("/invoices", s.GenerateInvoice)
		v1.POST("/invoices/preview", s.PreviewInvoice)
		v1.GET("/invoices", s.ListInvoices)
		v1.GET("/invoices/:id", s.GetInvoice)
		v1.GET("/invoices/:id/breakdown", s.GetInvoiceBreakdown)
		v1.GET("/rates", s.GetRates)
	}
	return engine
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		started := time.Now()
		c.Next()
		log.Info("request",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(started)))
	}
}

// Run starts the HTTP listener under the fx lifecycle.
func Run(lc fx.Lifecycle, s *Server, cfg config.Config, log *zap.Logger) {
	if cfg.HTTP.Mode != "" {
		gin.SetMode(cfg.HTTP.Mode)
	}
	srv := &http.Server{
		Addr:    cfg.HTTP.Addr,
		Handler: s.Engine(),
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTP.Addr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
