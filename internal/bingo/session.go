package bingo

import (
	"errors"
	"time"

	"github.com/alejandrodnm/bingobot/internal/domain"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

var (
	// ErrSessionNotFound indica que la sesión no existe o ya expiró.
	ErrSessionNotFound = errors.New("session not found or expired")
	// ErrNotOwner indica que otro usuario intentó reordenar una sesión ajena.
	ErrNotOwner = errors.New("only the requester can re-sort these results")
)

// Session es un resultado entregado a un usuario, reordenable por él mismo
// mientras no expire. Guarda su propia copia de las valoraciones.
type Session struct {
	ID          string
	OwnerID     string
	Sort        domain.SortSpec
	Valuations  []domain.Valuation // orden de catálogo
	Ranked      []domain.Valuation // orden según Sort
	FetchedAt   time.Time
	EvaluatedAt time.Time
	Stale       bool // el refresco que lo generó falló y son datos anteriores
	CreatedAt   time.Time
}

// SessionStore es la tabla request id → sesión con expiración.
type SessionStore struct {
	cache *gocache.Cache
}

// NewSessionStore crea la tabla; las sesiones viven ttl desde su último uso.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{cache: gocache.New(ttl, ttl)}
}

// Create registra una sesión nueva para owner con el informe dado.
func (st *SessionStore) Create(ownerID string, report domain.Report, spec domain.SortSpec) Session {
	s := Session{
		ID:          uuid.NewString(),
		OwnerID:     ownerID,
		Sort:        spec,
		Valuations:  report.Valuations,
		Ranked:      report.Ranked(spec),
		FetchedAt:   report.Snapshot.FetchedAt,
		EvaluatedAt: report.EvaluatedAt,
		Stale:       report.Stale,
		CreatedAt:   time.Now(),
	}
	st.cache.SetDefault(s.ID, s)
	return s
}

// Get devuelve la sesión si sigue viva.
func (st *SessionStore) Get(id string) (Session, bool) {
	v, ok := st.cache.Get(id)
	if !ok {
		return Session{}, false
	}
	return v.(Session), true
}

// Resort reordena la sesión con spec. Solo el dueño puede hacerlo.
// Reutiliza las valoraciones guardadas: no hay fetch ni evaluación.
func (st *SessionStore) Resort(id, userID string, spec domain.SortSpec) (Session, error) {
	s, ok := st.Get(id)
	if !ok {
		return Session{}, ErrSessionNotFound
	}
	if s.OwnerID != userID {
		return Session{}, ErrNotOwner
	}

	s.Sort = spec
	s.Ranked = domain.Rank(s.Valuations, spec)
	st.cache.SetDefault(s.ID, s)
	return s, nil
}

// Len devuelve el número de sesiones vivas (incluye expiradas aún no purgadas).
func (st *SessionStore) Len() int {
	return st.cache.ItemCount()
}
