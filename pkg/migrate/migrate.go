package migrate

import (
	"context"
	"strconv"

	"github.com/mnavarro-dev/storefront-backend/pkg/config"
	"github.com/mnavarro-dev/storefront-backend/pkg/db"
	"github.com/mnavarro-dev/storefront-backend/pkg/db/models"
	"github.com/mnavarro-dev/storefront-backend/pkg/env"
	"github.com/mnavarro-dev/storefront-backend/pkg/logger"
)

// MaybeRunDev applies the schema automatically outside production, or when
// STOREFRONT_DB_AUTO_MIGRATE forces it. Production schemas are managed out
// of band.
func MaybeRunDev(ctx context.Context, cfg *config.Config, logg *logger.Logger, client *db.Client) error {
	forced, _ := strconv.ParseBool(env.Get("STOREFRONT_DB_AUTO_MIGRATE", "false"))
	if cfg.App.IsProd() && !forced {
		return nil
	}

	logg.Info(ctx, "applying schema migrations")
	return client.DB().WithContext(ctx).AutoMigrate(
		&models.Session{},
		&models.CartLine{},
		&models.OrderRecord{},
		&models.Alert{},
	)
}
