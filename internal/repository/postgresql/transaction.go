package postgresql

import (
	"context"

	"github.com/eventstaffhq/crm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

// GetQuerier returns either transaction or pool.
// Callers that manage their own transaction place it in the context under
// the "tx" key; repositories stay agnostic of which one they run against.
func GetQuerier(ctx context.Context, db *database.DB) database.Querier {
	if tx, ok := ctx.Value("tx").(pgx.Tx); ok {
		return tx
	}
	return db.Pool
}
