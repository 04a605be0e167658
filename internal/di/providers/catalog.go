package providers

import (
	"github.com/samber/do/v2"

	"github.com/jewelapp/jewel-client/internal/catalog"
	"github.com/jewelapp/jewel-client/internal/config"
	"github.com/jewelapp/jewel-client/internal/logger"
	"github.com/jewelapp/jewel-client/internal/media/images"
	"github.com/jewelapp/jewel-client/internal/remote"
)

// SearchIndexHandle wraps the catalog search index with shutdown capability.
type SearchIndexHandle struct {
	*catalog.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve catalog index.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	index, err := catalog.NewSearchIndex(cfg.Storage.DataPath, log.Logger)
	if err != nil {
		return nil, err
	}

	docCount, _ := index.DocumentCount()
	log.Debug("Catalog index opened", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// ProvideCatalog provides the offline product catalog.
func ProvideCatalog(i do.Injector) (*catalog.Service, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	backend := do.MustInvoke[*remote.ProductService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	busHandle := do.MustInvoke[*BusHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return catalog.NewService(storeHandle.Products, backend, indexHandle.SearchIndex, busHandle.Bus, log.Logger), nil
}

// ProvideImageProcessor provides the product image cache.
func ProvideImageProcessor(i do.Injector) (*images.Processor, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	return images.NewProcessor(cfg.Storage.DataPath, log.Logger)
}
