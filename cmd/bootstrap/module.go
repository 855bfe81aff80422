package bootstrap

import (
	"storefront-api/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	DBModule,
	JWTModule,
	BrokerModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
