package store

import (
	"fmt"
	"strings"

	"github.com/nimburion/blogapi/pkg/config"
	"github.com/nimburion/blogapi/pkg/observability/logger"
	"github.com/nimburion/blogapi/pkg/store/mongodb"
)

// Cosa fa: seleziona il gateway di persistenza in base a database.type.
// Cosa NON fa: non apre connessioni; il gateway MongoDB si connette al primo EnsureConnected.
// Esempio minimo: gw, err := store.NewGateway(cfg.Database, log)
func NewGateway(cfg config.DatabaseConfig, log logger.Logger) (Gateway, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Type)) {
	case config.DatabaseTypeMongoDB:
		gw, err := mongodb.NewGateway(mongodb.Config{
			URL:              cfg.URL,
			ConnectTimeout:   cfg.ConnectTimeout,
			OperationTimeout: cfg.OperationTimeout,
		}, log)
		if err != nil {
			return nil, err
		}
		return gw, nil
	case config.DatabaseTypeMemory:
		return InProcess{}, nil
	default:
		return nil, fmt.Errorf("unsupported database.type %q (supported: mongodb, memory)", cfg.Type)
	}
}
