package ports

import "time"

// Metrics registra la actividad del fetch de precios y de los ciclos de refresco.
type Metrics interface {
	// ObserveRequest registra una llamada HTTP a la API de subastas.
	// outcome: ok | error.
	ObserveRequest(endpoint, outcome string, d time.Duration)

	// ObserveRefresh registra un ciclo de refresco completo.
	ObserveRefresh(priced, tracked int, d time.Duration, err error)

	// SetSessions publica el número de sesiones de ordenación vivas.
	SetSessions(n int)
}

// NopMetrics descarta todas las métricas.
type NopMetrics struct{}

func (NopMetrics) ObserveRequest(string, string, time.Duration) {}
func (NopMetrics) ObserveRefresh(int, int, time.Duration, error) {}
func (NopMetrics) SetSessions(int) {}
