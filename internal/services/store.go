package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/essenciabjj/trial/internal/config"
	"github.com/essenciabjj/trial/internal/db"
	"github.com/essenciabjj/trial/internal/supabase"
)

// OpenStore picks the registration store configured by STORE_DRIVER.
// The returned close func is safe to call once on shutdown.
func OpenStore(cfg *config.Config, logger *zap.Logger) (RegistrationStore, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverREST:
		logger.Info("Using managed REST store", zap.String("url", cfg.SupabaseURL))
		return supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseKey), func() error { return nil }, nil
	case config.DriverSQLite, config.DriverPostgres:
		conn, err := db.Open(cfg.StoreDriver, cfg.DBDSN, logger)
		if err != nil {
			return nil, nil, err
		}
		store := db.NewStore(conn)
		return store, store.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
