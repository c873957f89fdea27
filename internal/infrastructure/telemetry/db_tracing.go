package telemetry

import (
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RegisterDBTracing attaches the otelgorm plugin to a GORM connection so
// every query shows up as a child span of the request trace. Query
// variables are always excluded from spans; SQL text may carry customer
// data.
func RegisterDBTracing(db *gorm.DB, enabled bool, logger *zap.Logger) error {
	if !enabled {
		logger.Debug("Database tracing disabled, skipping otelgorm registration")
		return nil
	}

	plugin := otelgorm.NewPlugin(
		otelgorm.WithDBName("postgresql"),
		otelgorm.WithoutQueryVariables(),
	)
	if err := db.Use(plugin); err != nil {
		return err
	}

	logger.Info("Database tracing enabled")
	return nil
}
