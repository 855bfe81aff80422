package components

import (
	"storefront-api/internal/infra/db"
	"storefront-api/internal/infra/readstore"
	"storefront-api/internal/infra/uow"
	"storefront-api/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		// UnitOfWork owns write-side repository construction per transaction.
		uow.NewPostgresUoW,
		// Read stores run outside transactions on the shared pool.
		fx.Annotate(
			readstore.NewCartReadStore,
			fx.As(new(queries.CartReadStore)),
		),
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
