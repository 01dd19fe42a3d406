package bingo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/alejandrodnm/bingobot/internal/ports"
	"golang.org/x/time/rate"
)

var (
	// ErrUnavailable indica que no hay datos de mercado todavía; se puede reintentar.
	ErrUnavailable = errors.New("market data unavailable, try again later")
	// ErrStale indica que el refresco falló y se sirve el informe anterior.
	ErrStale = errors.New("price refresh failed, serving previous data")
)

// Config contiene la configuración del servicio.
type Config struct {
	// RefreshInterval es el mínimo entre dos fetches de precios.
	RefreshInterval time.Duration
	// SessionTTL es cuánto vive una sesión de reordenación sin usarse.
	SessionTTL time.Duration
	// Once ejecuta un solo ciclo en Run y termina.
	Once bool
}

// DefaultConfig devuelve una configuración sensata para producción.
func DefaultConfig() Config {
	return Config{
		RefreshInterval: 60 * time.Second,
		SessionTTL:      15 * time.Minute,
	}
}

// Service orquesta fetch → evaluate → cache y atiende las peticiones del chat.
type Service struct {
	cfg      Config
	catalog  *domain.Catalog
	prices   ports.PriceProvider
	storage  ports.Storage
	notifier ports.Notifier
	metrics  ports.Metrics
	sessions *SessionStore

	// throttle deja pasar como máximo un fetch por RefreshInterval.
	throttle  *rate.Limiter
	refreshMu sync.Mutex

	mu     sync.RWMutex
	report domain.Report
}

// New crea un Service con todas las dependencias inyectadas.
// storage, notifier y metrics pueden ser nil.
func New(
	cfg Config,
	catalog *domain.Catalog,
	prices ports.PriceProvider,
	storage ports.Storage,
	notifier ports.Notifier,
	metrics ports.Metrics,
) *Service {
	if cfg.RefreshInterval <= 0 {
		cfg.RefreshInterval = DefaultConfig().RefreshInterval
	}
	if cfg.SessionTTL <= 0 {
		cfg.SessionTTL = DefaultConfig().SessionTTL
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	return &Service{
		cfg:      cfg,
		catalog:  catalog,
		prices:   prices,
		storage:  storage,
		notifier: notifier,
		metrics:  metrics,
		sessions: NewSessionStore(cfg.SessionTTL),
		throttle: rate.NewLimiter(rate.Every(cfg.RefreshInterval), 1),
	}
}

// WarmStart carga el último snapshot guardado y lo evalúa, para poder responder
// antes del primer fetch. No consume el throttle.
func (s *Service) WarmStart(ctx context.Context) error {
	if s.storage == nil {
		return nil
	}
	snap, ok, err := s.storage.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("bingo.WarmStart: %w", err)
	}
	if !ok || snap.IsZero() {
		return nil
	}

	report := s.evaluate(snap)
	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	slog.Info("warm start from stored snapshot",
		"fetched_at", snap.FetchedAt.Format(time.RFC3339),
		"priced", snap.Priced(),
	)
	return nil
}

// Run ejecuta el loop de refresco hasta que el contexto se cancele.
// Si cfg.Once está activo, solo ejecuta un ciclo.
func (s *Service) Run(ctx context.Context) error {
	slog.Info("refresh loop starting", "interval", s.cfg.RefreshInterval, "once", s.cfg.Once)

	if _, err := s.refresh(ctx, true); err != nil {
		logRefreshError(err)
		if s.cfg.Once {
			return err
		}
	}

	if s.cfg.Once {
		return nil
	}

	ticker := time.NewTicker(s.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("refresh loop stopped")
			return nil
		case <-ticker.C:
			if _, err := s.refresh(ctx, true); err != nil {
				logRefreshError(err)
			}
		}
	}
}

// Refresh devuelve el informe actual, refrescándolo si el throttle lo permite.
// Si el fetch falla y hay un informe previo, lo devuelve marcado como Stale junto
// con un error ErrStale; si no lo hay, devuelve ErrUnavailable. Sin informe y con
// el throttle cerrado también devuelve ErrUnavailable, sin llamar a la API.
func (s *Service) Refresh(ctx context.Context) (domain.Report, error) {
	return s.refresh(ctx, false)
}

// refresh con scheduled=true lo llama el loop: el ticker ya marca el ritmo, así
// que siempre hace fetch, pero consume el token para que los comandos del chat
// no disparen otro fetch dentro del mismo intervalo.
func (s *Service) refresh(ctx context.Context, scheduled bool) (domain.Report, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	current, hasCurrent := s.Latest()
	if scheduled {
		s.throttle.Reserve()
	} else if !s.throttle.Allow() {
		if hasCurrent {
			return current, nil
		}
		return domain.Report{}, fmt.Errorf("bingo.Refresh: %w: next fetch in under %s",
			ErrUnavailable, s.cfg.RefreshInterval)
	}

	start := time.Now()
	tracked := s.catalog.TrackedItems()
	snap, err := s.prices.FetchPrices(ctx, tracked)
	s.metrics.ObserveRefresh(snap.Priced(), len(tracked), time.Since(start), err)

	if err != nil {
		if !hasCurrent {
			return domain.Report{}, fmt.Errorf("bingo.Refresh: %w: %w", ErrUnavailable, err)
		}

		current.Stale = true
		s.mu.Lock()
		s.report = current
		s.mu.Unlock()

		slog.Warn("price refresh failed, using previous data",
			"err", err,
			"data_from", current.Snapshot.FetchedAt.Format(time.RFC3339),
		)
		s.notify(ctx, current)
		return current, fmt.Errorf("bingo.Refresh: %w: %w", ErrStale, err)
	}

	report := s.evaluate(snap)
	s.mu.Lock()
	s.report = report
	s.mu.Unlock()

	s.notify(ctx, report)
	if s.storage != nil {
		if err := s.storage.SaveSnapshot(ctx, snap); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("refresh cycle complete",
		"items", len(report.Valuations),
		"priced", snap.Priced(),
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return report, nil
}

func (s *Service) notify(ctx context.Context, report domain.Report) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Notify(ctx, report); err != nil {
		slog.Warn("notifier error", "err", err)
	}
}

// logRefreshError distingue un refresco degradado de uno sin datos.
func logRefreshError(err error) {
	if errors.Is(err, ErrStale) {
		slog.Warn("refresh cycle served stale data", "err", err)
		return
	}
	slog.Error("refresh cycle failed", "err", err)
}

// Latest devuelve el informe cacheado; ok=false si aún no hay ninguno.
func (s *Service) Latest() (domain.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.report, !s.report.IsZero()
}

// Report es la operación única detrás de los dos comandos del chat:
// refresca si toca y abre una sesión de resultados para ownerID.
func (s *Service) Report(ctx context.Context, ownerID string, spec domain.SortSpec) (Session, error) {
	report, err := s.Refresh(ctx)
	if err != nil && !errors.Is(err, ErrStale) {
		return Session{}, err
	}
	sess := s.sessions.Create(ownerID, report, spec)
	s.metrics.SetSessions(s.sessions.Len())

	slog.Debug("report session created", "session", sess.ID, "owner", ownerID, "sort", spec.String())
	return sess, nil
}

// Resort reordena una sesión existente sin refrescar ni reevaluar.
func (s *Service) Resort(_ context.Context, sessionID, userID string, spec domain.SortSpec) (Session, error) {
	sess, err := s.sessions.Resort(sessionID, userID, spec)
	if err != nil {
		return Session{}, fmt.Errorf("bingo.Resort %s: %w", sessionID, err)
	}
	return sess, nil
}

// evaluate ejecuta el motor de valoración sobre un snapshot completo.
func (s *Service) evaluate(snap domain.Snapshot) domain.Report {
	return domain.Report{
		Snapshot:    snap,
		Valuations:  domain.Evaluate(s.catalog, snap),
		EvaluatedAt: time.Now().UTC(),
	}
}
