package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/bookdenapp/bookden-server/internal/config"
	"github.com/bookdenapp/bookden-server/internal/logger"
	"github.com/bookdenapp/bookden-server/internal/store"
	"github.com/bookdenapp/bookden-server/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the document store. Legacy book documents are
// repaired in a best-effort startup sweep.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := store.New(cfg.DatabasePath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("Database initialized", "path", cfg.DatabasePath())

	repaired, err := db.RepairAllBookShapes(context.Background())
	if err != nil {
		log.Warn("Startup book shape sweep failed", "error", err)
	} else if repaired > 0 {
		log.Info("Repaired legacy book documents", "count", repaired)
	}

	return &StoreHandle{Store: db}, nil
}

// HistoryHandle wraps the view history store with shutdown capability.
type HistoryHandle struct {
	*sqlite.Store
}

// Shutdown implements do.Shutdownable.
func (h *HistoryHandle) Shutdown() error {
	return h.Close()
}

// ProvideHistory provides the sqlite view history store.
func ProvideHistory(i do.Injector) (*HistoryHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	db, err := sqlite.Open(cfg.HistoryDBPath(), log.Logger)
	if err != nil {
		return nil, err
	}

	log.Info("View history initialized", "path", cfg.HistoryDBPath())
	return &HistoryHandle{Store: db}, nil
}
