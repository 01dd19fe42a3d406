package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/gin-gonic/gin"
)

const shutdownTimeout = 5 * time.Second

// ReportSource da acceso al último informe evaluado. Lo implementa *bingo.Service.
type ReportSource interface {
	Latest() (domain.Report, bool)
}

// Server expone el estado del bot en solo lectura: /healthz, /api/v1/valuations y /metrics.
type Server struct {
	engine *gin.Engine
	srv    *http.Server
	source ReportSource
}

// valuationDTO es la forma JSON de una valoración.
type valuationDTO struct {
	ItemID           string   `json:"item_id"`
	Status           string   `json:"status"`
	MarketPrice      *float64 `json:"market_price"`
	PrerequisiteCost float64  `json:"prerequisite_cost"`
	NetProfit        float64  `json:"net_profit"`
	PointsSpent      int      `json:"points_spent"`
	CoinsPerPoint    float64  `json:"coins_per_point"`
	Summary          []string `json:"summary"`
}

// NewServer crea el servidor. metrics puede ser nil.
func NewServer(addr string, source ReportSource, metrics http.Handler) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{engine: gin.New(), source: source}
	s.engine.Use(gin.Recovery(), requestLogger())

	s.engine.GET("/healthz", s.health)
	api := s.engine.Group("/api/v1")
	api.GET("/valuations", s.valuations)
	if metrics != nil {
		s.engine.GET("/metrics", gin.WrapH(metrics))
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Handler devuelve el router, útil para tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run escucha hasta que ctx se cancele y luego cierra ordenadamente.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Info("status API listening", "addr", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("httpapi.Run: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpapi.Run: shutdown: %w", err)
	}
	slog.Info("status API stopped")
	return nil
}

func (s *Server) health(c *gin.Context) {
	report, ok := s.source.Latest()
	body := gin.H{"status": "ok", "has_data": ok}
	if ok {
		body["fetched_at"] = report.Snapshot.FetchedAt.UTC().Format(time.RFC3339)
		body["priced"] = report.Snapshot.Priced()
		body["stale"] = report.Stale
	}
	c.JSON(http.StatusOK, body)
}

func (s *Server) valuations(c *gin.Context) {
	spec, err := domain.ParseSort(c.Query("sort"), c.Query("order"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, ok := s.source.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no market data yet"})
		return
	}

	ranked := report.Ranked(spec)
	items := make([]valuationDTO, 0, len(ranked))
	for _, v := range ranked {
		items = append(items, toDTO(v))
	}

	c.JSON(http.StatusOK, gin.H{
		"fetched_at":   report.Snapshot.FetchedAt.UTC().Format(time.RFC3339),
		"evaluated_at": report.EvaluatedAt.UTC().Format(time.RFC3339),
		"sort":         spec.String(),
		"stale":        report.Stale,
		"items":        items,
	})
}

func toDTO(v domain.Valuation) valuationDTO {
	dto := valuationDTO{
		ItemID:           v.ItemID,
		Status:           v.Status().String(),
		PrerequisiteCost: v.PrerequisiteCost,
		NetProfit:        v.NetProfit,
		PointsSpent:      v.PointsSpent,
		CoinsPerPoint:    v.CoinsPerPoint,
		Summary:          domain.SummaryLines(v),
	}
	if v.Prices.LowestActive.Known {
		price := v.Prices.LowestActive.Coins
		dto.MarketPrice = &price
	}
	return dto
}

// requestLogger registra cada petición con slog en nivel debug.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Debug("http request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	}
}
