package persist

import (
	"context"
	"fmt"
)

// AuditEntry is one row of the GM mutation log. Item grants and transfers
// are the operations disputes come from, so they are always recorded.
type AuditEntry struct {
	Action   string // "give", "transfer", "sack", "command"
	Actor    string
	Target   string
	ItemName string
	Count    int
}

type AuditRepo struct {
	db *DB
}

func NewAuditRepo(db *DB) *AuditRepo {
	return &AuditRepo{db: db}
}

// Record writes a batch of audit entries in a single transaction.
func (r *AuditRepo) Record(ctx context.Context, entries []AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("audit begin: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		if _, err := tx.Exec(ctx,
			`INSERT INTO mutation_log (action, actor, target, item_name, count)
			 VALUES ($1, $2, $3, $4, $5)`,
			e.Action, e.Actor, e.Target, e.ItemName, e.Count,
		); err != nil {
			return fmt.Errorf("audit insert: %w", err)
		}
	}

	return tx.Commit(ctx)
}
