package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/selection"
)

type selectionRepository struct {
	exec core.DBExecutor
}

var _ selection.Repository = (*selectionRepository)(nil) // interface compliance check

func NewSelectionRepository(exec core.DBExecutor) *selectionRepository {
	return &selectionRepository{exec: exec}
}

func (repo selectionRepository) getExec(svcExec []core.DBExecutor) core.DBExecutor {
	if len(svcExec) > 0 {
		return svcExec[0]
	}
	return repo.exec
}

func (repo selectionRepository) GetSelection(ctx context.Context, actorID string, exec ...core.DBExecutor) (selection.Selection, error) {
	var sel selection.Selection
	err := repo.getExec(exec).GetContext(ctx, &sel,
		`SELECT actor_id, slot_id, updated_at FROM slot_selection WHERE actor_id = $1`, actorID)
	if err != nil {
		if err == sql.ErrNoRows {
			return selection.Selection{}, selection.ErrNotFound
		}
		return selection.Selection{}, errors.Wrap(err, "getting slot selection")
	}
	return sel, nil
}

func (repo selectionRepository) SaveSelection(ctx context.Context, sel selection.Selection, exec ...core.DBExecutor) (selection.Selection, error) {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`INSERT INTO slot_selection (actor_id, slot_id, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (actor_id) DO UPDATE SET slot_id = EXCLUDED.slot_id, updated_at = EXCLUDED.updated_at`,
		sel.ActorID, sel.SlotID, sel.UpdatedAt)
	if err != nil {
		return selection.Selection{}, errors.Wrap(err, "saving slot selection")
	}
	return sel, nil
}

func (repo selectionRepository) ClearSelection(ctx context.Context, actorID string, exec ...core.DBExecutor) error {
	_, err := repo.getExec(exec).ExecContext(ctx,
		`DELETE FROM slot_selection WHERE actor_id = $1`, actorID)
	return errors.Wrap(err, "clearing slot selection")
}
