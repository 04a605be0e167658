package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

// mappingVersion is incremented whenever the index mapping changes.
// A mismatch on open triggers an automatic rebuild.
const mappingVersion = "2"

// SearchIndex wraps a Bleve index over the cached product catalog so
// search keeps working against stale data while the backend is down.
//
// All public methods are safe for concurrent use; the mutex guards the
// index swap during Rebuild.
type SearchIndex struct {
	index  bleve.Index
	path   string
	logger *slog.Logger
	mu     sync.RWMutex
}

// searchDocument is the indexed shape of a product.
type searchDocument struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Metals      string  `json:"metals"`
	Price       float64 `json:"price"`
}

// Hit is a single search result.
type Hit struct {
	ProductID string  `json:"productId"`
	Title     string  `json:"title"`
	Category  string  `json:"category"`
	Price     float64 `json:"price"`
	Score     float64 `json:"score"`
}

// NewSearchIndex creates or opens the product search index under
// dataPath. A corrupted index or an outdated mapping version is
// removed and recreated; the caller reindexes on the next refresh.
func NewSearchIndex(dataPath string, logger *slog.Logger) (*SearchIndex, error) {
	indexPath := filepath.Join(dataPath, "catalog.bleve")
	versionPath := filepath.Join(dataPath, "catalog.version")

	var index bleve.Index
	needsRebuild := false

	indexExists := false
	if _, err := os.Stat(indexPath); err == nil {
		indexExists = true
	}

	if indexExists {
		existingVersion, err := os.ReadFile(versionPath)
		if err != nil || string(existingVersion) != mappingVersion {
			logger.Info("catalog index mapping changed, rebuilding",
				"new_version", mappingVersion)
			needsRebuild = true
		}
	}

	if !needsRebuild && indexExists {
		opened, err := bleve.Open(indexPath)
		if err != nil {
			logger.Warn("opening catalog index failed, recreating",
				"path", indexPath, "error", err)
			needsRebuild = true
		} else {
			index = opened
		}
	}

	if needsRebuild {
		if err := os.RemoveAll(indexPath); err != nil {
			return nil, fmt.Errorf("remove old index: %w", err)
		}
		index = nil
	}

	if index == nil {
		created, err := bleve.New(indexPath, buildIndexMapping())
		if err != nil {
			return nil, fmt.Errorf("create index: %w", err)
		}
		index = created
		if err := os.WriteFile(versionPath, []byte(mappingVersion), 0644); err != nil {
			logger.Warn("writing catalog index version failed", "error", err)
		}
		logger.Info("created catalog search index", "path", indexPath)
	}

	return &SearchIndex{
		index:  index,
		path:   indexPath,
		logger: logger,
	}, nil
}

// buildIndexMapping creates the Bleve mapping for product documents.
// Title and description get English stemming; category and metals are
// exact-match keywords for filtering.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	titleMapping := bleve.NewTextFieldMapping()
	titleMapping.Analyzer = en.AnalyzerName
	titleMapping.Store = true
	docMapping.AddFieldMappingsAt("title", titleMapping)

	descMapping := bleve.NewTextFieldMapping()
	descMapping.Analyzer = en.AnalyzerName
	descMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descMapping)

	categoryMapping := bleve.NewTextFieldMapping()
	categoryMapping.Analyzer = keyword.Name
	categoryMapping.Store = true
	docMapping.AddFieldMappingsAt("category", categoryMapping)

	metalsMapping := bleve.NewTextFieldMapping()
	metalsMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("metals", metalsMapping)

	idMapping := bleve.NewTextFieldMapping()
	idMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idMapping)

	priceMapping := bleve.NewNumericFieldMapping()
	priceMapping.Store = true
	docMapping.AddFieldMappingsAt("price", priceMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}

// Close closes the index and releases resources.
func (s *SearchIndex) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index.Close()
}

// IndexProducts indexes products in a single batch, replacing any
// previous versions of the same documents.
func (s *SearchIndex) IndexProducts(docs []searchDocument) error {
	s.mu.RLock()
	defer s.mu.RUnlock()

	batch := s.index.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc); err != nil {
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	return s.index.Batch(batch)
}

// DeleteProduct removes a product from the index.
func (s *SearchIndex) DeleteProduct(productID string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.Delete(productID)
}

// DocumentCount returns the number of indexed products.
func (s *SearchIndex) DocumentCount() (uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index.DocCount()
}

// SearchParams configures a catalog search.
type SearchParams struct {
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	Limit    int
	Offset   int
}

// Search runs a query against the index and returns scored hits.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) ([]Hit, uint64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = 20
	}

	searchQuery := buildSearchQuery(params)
	request := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)
	request.Fields = []string{"title", "category", "price"}

	result, err := s.index.SearchInContext(ctx, request)
	if err != nil {
		return nil, 0, fmt.Errorf("execute search: %w", err)
	}

	hits := make([]Hit, 0, len(result.Hits))
	for _, hit := range result.Hits {
		h := Hit{
			ProductID: hit.ID,
			Score:     hit.Score,
		}
		if title, ok := hit.Fields["title"].(string); ok {
			h.Title = title
		}
		if category, ok := hit.Fields["category"].(string); ok {
			h.Category = category
		}
		if price, ok := hit.Fields["price"].(float64); ok {
			h.Price = price
		}
		hits = append(hits, h)
	}
	return hits, result.Total, nil
}

// buildSearchQuery constructs the Bleve query from params. The text
// query fans out over title and description with a fuzzy fallback for
// typo tolerance; an empty query matches everything so category and
// price filters work on their own.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	normalized := normalizeQuery(params.Query)
	if normalized != "" {
		titleMatch := bleve.NewMatchQuery(normalized)
		titleMatch.SetField("title")
		titleMatch.SetBoost(3.0)

		descMatch := bleve.NewMatchQuery(normalized)
		descMatch.SetField("description")

		fuzzy := bleve.NewFuzzyQuery(normalized)
		fuzzy.SetFuzziness(1)
		fuzzy.SetField("title")
		fuzzy.SetBoost(0.8)

		textQueries := []query.Query{titleMatch, descMatch, fuzzy}
		if len(normalized) >= 2 {
			prefix := bleve.NewPrefixQuery(strings.ToLower(normalized))
			prefix.SetField("title")
			prefix.SetBoost(0.5)
			textQueries = append(textQueries, prefix)
		}
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	if params.Category != "" {
		tq := bleve.NewTermQuery(Slugify(params.Category))
		tq.SetField("category")
		queries = append(queries, tq)
	}

	if params.MinPrice > 0 || params.MaxPrice > 0 {
		minPrice := params.MinPrice
		maxPrice := params.MaxPrice
		if maxPrice == 0 {
			maxPrice = 1e12
		}
		rq := bleve.NewNumericRangeQuery(&minPrice, &maxPrice)
		rq.SetField("price")
		queries = append(queries, rq)
	}

	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	return bleve.NewConjunctionQuery(queries...)
}
