package inmemdb

import (
	"context"

	"github.com/mentora/backend/core"
	"github.com/mentora/backend/core/selection"
)

type selectionRepository struct {
	db *DB
}

var _ selection.Repository = (*selectionRepository)(nil)

func NewSelectionRepository(db *DB) selection.Repository {
	return &selectionRepository{db: db}
}

func (repo *selectionRepository) GetSelection(ctx context.Context, actorID string, exec ...core.DBExecutor) (selection.Selection, error) {
	repo.db.selection.mutex.RLock()
	defer repo.db.selection.mutex.RUnlock()

	if sel, ok := repo.db.selection.table[actorID]; ok {
		return *sel, nil
	}
	return selection.Selection{}, selection.ErrNotFound
}

func (repo *selectionRepository) SaveSelection(ctx context.Context, sel selection.Selection, exec ...core.DBExecutor) (selection.Selection, error) {
	repo.db.selection.mutex.Lock()
	defer repo.db.selection.mutex.Unlock()

	repo.db.selection.table[sel.ActorID] = &sel
	return sel, nil
}

func (repo *selectionRepository) ClearSelection(ctx context.Context, actorID string, exec ...core.DBExecutor) error {
	repo.db.selection.mutex.Lock()
	defer repo.db.selection.mutex.Unlock()

	delete(repo.db.selection.table, actorID)
	return nil
}
