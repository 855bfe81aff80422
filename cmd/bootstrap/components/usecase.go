package components

import (
	"storefront-api/internal/infra/promo"
	"storefront-api/internal/infra/psp"
	"storefront-api/internal/pkg/clock"
	"storefront-api/internal/usecase/commands"
	"storefront-api/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	promo.NewEnvResolver,
	psp.NewRegistry,
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewCartCommands,
		commands.NewOrderCommands,
		commands.NewPaymentCommands,
		commands.NewSettlementCommands,
		commands.NewInventoryCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCartQueries,
		queries.NewOrderQueries,
	),
)
