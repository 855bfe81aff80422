package bootstrap

import (
	"context"

	"storefront-api/internal/infra/notify"
	"storefront-api/internal/pkg/config"
	"storefront-api/internal/usecase/commands"

	"go.uber.org/fx"
)

var BrokerModule = fx.Module("broker",
	fx.Provide(
		NewNotifier,
	),
)

func NewNotifier(lc fx.Lifecycle, cfg config.Config) (commands.Notifier, error) {
	notifier, cleanup, err := notify.NewNotifier(cfg)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return notifier, nil
}
