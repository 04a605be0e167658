package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/jewelapp/jewel-client/internal/config"
	"github.com/jewelapp/jewel-client/internal/logger"
	"github.com/jewelapp/jewel-client/internal/notify"
	"github.com/jewelapp/jewel-client/internal/store"
)

// BusHandle wraps the event bus with its context for lifecycle management.
type BusHandle struct {
	*notify.Bus
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *BusHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Bus.Shutdown(ctx)
}

// ProvideBus provides the in-process event bus.
func ProvideBus(i do.Injector) (*BusHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	bus := notify.NewBus(log.Logger)

	ctx, cancel := context.WithCancel(context.Background())
	go bus.Start(ctx)

	return &BusHandle{Bus: bus, cancel: cancel}, nil
}

// StoreHandle wraps the local store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the local store.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	dbPath := filepath.Join(cfg.Storage.DataPath, "db")
	db, err := store.Open(dbPath, log.Logger)
	if err != nil {
		return nil, err
	}

	log.Debug("Local store opened", "path", dbPath)

	return &StoreHandle{Store: db}, nil
}
