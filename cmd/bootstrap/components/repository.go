package components

import (
	"booking-engine/internal/infra/notify"
	"booking-engine/internal/infra/readstore"
	"booking-engine/internal/infra/repository"
	"booking-engine/internal/pkg/config"
	"booking-engine/internal/usecase"
	"booking-engine/internal/usecase/queries"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		fx.Annotate(
			repository.NewBookingStore,
			fx.As(new(usecase.Store)),
		),
		fx.Annotate(
			repository.NewSettingsStore,
			fx.As(new(usecase.SettingsProvider)),
		),
		fx.Annotate(
			repository.NewAuditStore,
			fx.As(new(usecase.AuditSink)),
		),
		fx.Annotate(
			NewNotifier,
			fx.As(new(usecase.NotificationSink)),
		),
		// Read-side store for queries
		fx.Annotate(
			readstore.NewBookingReadStore,
			fx.As(new(queries.BookingReadStore)),
		),
	),
)

func NewNotifier(client *redis.Client, cfg config.Config) *notify.RedisNotifier {
	return notify.NewRedisNotifier(client, cfg.Redis.NotificationChannel)
}
