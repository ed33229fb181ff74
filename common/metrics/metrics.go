package metrics

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
)

// Metrics groups the infrastructure instruments shared by every component.
type Metrics struct {
	Database  *DatabaseMetrics
	Health    *HealthMetrics
	Messaging *MessagingMetrics
	Meter     metric.Meter
}

func New(meter metric.Meter, logger *slog.Logger) (*Metrics, error) {
	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	health, err := NewHealthMetrics(meter)
	if err != nil {
		return nil, err
	}

	messaging, err := NewMessagingMetrics(meter)
	if err != nil {
		return nil, err
	}

	logger.Info("metrics collectors initialized successfully")

	return &Metrics{
		Database:  database,
		Health:    health,
		Messaging: messaging,
		Meter:     meter,
	}, nil
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{
		Database:  &DatabaseMetrics{},
		Health:    &HealthMetrics{dependencies: make(map[string]bool)},
		Messaging: &MessagingMetrics{},
	}
}
