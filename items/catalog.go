package items

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	// Only the EN-US localization is used; the scalper's config and output
	// are written against English item names.
	localeName = "EN-US"

	defaultItemFile = "data/items.json"
)

var (
	ErrCatalogEmpty     = errors.New("item catalog is empty")
	ErrCategoryNotFound = errors.New("category not found")
)

// RawCategory is an unvalidated category rule, typically taken straight from
// the item_categories mapping in settings.yaml.
type RawCategory struct {
	Type  string
	Value any
}

type CatalogConfig struct {
	// FilePath is the local copy of the item file. Downloaded on first load
	// if absent. Defaults to data/items.json.
	FilePath string
	// CustomCategoriesFile is an optional itemId,categoryName text file whose
	// entries become list rules alongside the configured categories.
	CustomCategoriesFile string
	// Categories is the configured category rule mapping.
	Categories map[string]RawCategory
	// Downloader overrides the default item file downloader.
	Downloader *Downloader
}

// Catalog holds the item ID/name lookup tables and the category rule table.
// Loading is lazy: the first lookup triggers a download (if needed) and parse,
// and a failed load is retried by the next lookup. Safe for concurrent use.
type Catalog struct {
	filePath   string
	customPath string
	categories map[string]RawCategory
	downloader *Downloader

	loadGroup singleflight.Group

	mu       sync.RWMutex
	loaded   bool
	idToName map[string]string
	nameToId map[string]string
	ids      []string // catalog order, used for deterministic rule evaluation
	rules    map[string]ruleEntry
}

// ruleEntry keeps construction errors around so resolution can report an
// invalid rule instead of conflating it with an unknown category.
type ruleEntry struct {
	rule Rule
	err  error
}

func NewCatalog(cfg CatalogConfig) *Catalog {
	c := Catalog{
		filePath:   cfg.FilePath,
		customPath: cfg.CustomCategoriesFile,
		categories: cfg.Categories,
		downloader: cfg.Downloader,
		idToName:   map[string]string{},
		nameToId:   map[string]string{},
		rules:      map[string]ruleEntry{},
	}
	if c.filePath == "" {
		c.filePath = defaultItemFile
	}
	if c.downloader == nil {
		c.downloader = NewDownloader(DownloaderOpts{})
	}
	return &c
}

// ensureLoaded populates the lookup tables on first use. Concurrent callers
// share a single download and parse. All failure modes degrade to empty
// tables with a logged diagnostic; the loaded flag stays false so a later
// call retries.
func (c *Catalog) ensureLoaded(ctx context.Context) {
	c.mu.RLock()
	loaded := c.loaded
	c.mu.RUnlock()
	if loaded {
		return
	}

	_, _, _ = c.loadGroup.Do("load", func() (any, error) {
		return nil, c.load(ctx)
	})
}

// Reload forces a (re)load and reports the outcome, unlike the lazy path
// which only logs. Mainly for callers that want to fail fast on startup.
func (c *Catalog) Reload(ctx context.Context) error {
	c.mu.Lock()
	c.loaded = false
	c.mu.Unlock()

	_, err, _ := c.loadGroup.Do("load", func() (any, error) {
		return nil, c.load(ctx)
	})
	return err
}

func (c *Catalog) load(ctx context.Context) error {
	idToName := map[string]string{}
	nameToId := map[string]string{}
	var ids []string

	err := c.ensureItemFile(ctx)
	if err != nil {
		log.Warn().Err(err).Str("url", c.downloader.url).Msg("item file download failed, item mapping unavailable")
	} else {
		idToName, nameToId, ids, err = parseItemFile(c.filePath)
		if err != nil {
			log.Error().Err(err).Str("path", c.filePath).Msg("failed to parse item file")
		}
	}

	rules := c.buildRuleTable()

	c.mu.Lock()
	c.idToName = idToName
	c.nameToId = nameToId
	c.ids = ids
	c.rules = rules
	c.loaded = len(idToName) > 0
	loaded := c.loaded
	c.mu.Unlock()

	if loaded {
		log.Info().Int("items", len(ids)).Int("categories", len(rules)).Msg("item catalog loaded")
	}
	return err
}

func (c *Catalog) ensureItemFile(ctx context.Context) error {
	if _, err := os.Stat(c.filePath); err == nil {
		return nil
	}

	if dir := filepath.Dir(c.filePath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create data directory: %w", err)
		}
	}

	log.Info().Str("url", c.downloader.url).Str("path", c.filePath).Msg("downloading item file")
	return c.downloader.DownloadItemFile(ctx, c.filePath)
}

type itemRecord struct {
	UniqueName string `json:"UniqueName"`
	// Decoded leniently in a second step: a malformed LocalizedNames only
	// loses the display name, not the whole record.
	LocalizedNames json.RawMessage `json:"LocalizedNames"`
}

// parseItemFile reads the item file and builds both lookup tables in one
// pass. Records without a UniqueName or with an unexpected shape are skipped
// individually. The first seen ID wins for a duplicated name so that the
// reverse lookup is deterministic.
func parseItemFile(path string) (map[string]string, map[string]string, []string, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("could not read item file: %w", err)
	}

	var rawItems []json.RawMessage
	if err := json.Unmarshal(bytes, &rawItems); err != nil {
		return nil, nil, nil, fmt.Errorf("item file is not a JSON array: %w", err)
	}

	idToName := make(map[string]string, len(rawItems))
	nameToId := make(map[string]string, len(rawItems))
	ids := make([]string, 0, len(rawItems))
	skipped := 0

	for _, raw := range rawItems {
		var rec itemRecord
		if err := json.Unmarshal(raw, &rec); err != nil || rec.UniqueName == "" {
			skipped++
			continue
		}
		if _, seen := idToName[rec.UniqueName]; seen {
			continue
		}

		name := rec.UniqueName
		if len(rec.LocalizedNames) > 0 {
			var locales map[string]string
			_ = json.Unmarshal(rec.LocalizedNames, &locales)
			if localized := locales[localeName]; localized != "" {
				name = localized
			}
		}

		idToName[rec.UniqueName] = name
		ids = append(ids, rec.UniqueName)
		if _, ok := nameToId[name]; !ok {
			nameToId[name] = rec.UniqueName
		}
	}

	if skipped > 0 {
		log.Debug().Int("skipped", skipped).Msg("skipped malformed item records")
	}
	if len(ids) == 0 {
		return nil, nil, nil, fmt.Errorf("parsed 0 items from %s", path)
	}

	return idToName, nameToId, ids, nil
}

// buildRuleTable merges the configured rules with the custom-categories file.
// Config rules win on a name collision; custom file entries surface as plain
// list rules.
func (c *Catalog) buildRuleTable() map[string]ruleEntry {
	rules := make(map[string]ruleEntry, len(c.categories))

	for name, raw := range c.categories {
		rule, err := ParseRule(raw.Type, raw.Value)
		if err != nil {
			log.Warn().Err(err).Str("category", name).Msg("invalid category rule in config")
			rules[name] = ruleEntry{err: fmt.Errorf("category %q: %w", name, err)}
			continue
		}
		rules[name] = ruleEntry{rule: rule}
	}

	if c.customPath != "" {
		for name, ids := range loadCustomCategories(c.customPath) {
			if _, exists := rules[name]; exists {
				continue
			}
			rules[name] = ruleEntry{rule: ListRule{Ids: ids}}
		}
	}

	return rules
}

// GetItemName returns the display name for an item ID.
func (c *Catalog) GetItemName(ctx context.Context, id string) (string, bool) {
	c.ensureLoaded(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	name, ok := c.idToName[id]
	return name, ok
}

// GetItemId returns the item ID for a display name. Falls back to a
// case-insensitive scan when the exact name is not found.
func (c *Catalog) GetItemId(ctx context.Context, name string) (string, bool) {
	c.ensureLoaded(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()

	if id, ok := c.nameToId[name]; ok {
		return id, true
	}
	for _, id := range c.ids {
		if strings.EqualFold(c.idToName[id], name) {
			return id, true
		}
	}
	return "", false
}

// GetAllItemIds returns every known item ID in catalog order.
func (c *Catalog) GetAllItemIds(ctx context.Context) []string {
	c.ensureLoaded(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	ids := make([]string, len(c.ids))
	copy(ids, c.ids)
	return ids
}

// GetAllItemNames returns every known display name in catalog order.
func (c *Catalog) GetAllItemNames(ctx context.Context) []string {
	c.ensureLoaded(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.ids))
	for _, id := range c.ids {
		names = append(names, c.idToName[id])
	}
	return names
}

// ResolveCategory returns the item IDs matching the named category rule. The
// error distinguishes failure (empty catalog, unknown category, invalid rule)
// from a rule that legitimately matched nothing.
func (c *Catalog) ResolveCategory(ctx context.Context, category string) ([]string, error) {
	c.ensureLoaded(ctx)
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.idToName) == 0 {
		return nil, ErrCatalogEmpty
	}

	entry, ok := c.rules[category]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCategoryNotFound, category)
	}
	if entry.err != nil {
		return nil, entry.err
	}

	var matching []string
	switch rule := entry.rule.(type) {
	case ListRule:
		matching = make([]string, 0, len(rule.Ids))
		for _, id := range rule.Ids {
			if _, ok := c.idToName[id]; ok {
				matching = append(matching, id)
			}
		}
		if missing := len(rule.Ids) - len(matching); missing > 0 {
			log.Warn().Str("category", category).Int("missing", missing).Msg("some listed item IDs not found in catalog")
		}
	case RegexRule:
		for _, id := range c.ids {
			if rule.MatchId(id) {
				matching = append(matching, id)
			}
		}
	case NameContainsRule:
		substr := strings.ToLower(rule.Substring)
		for _, id := range c.ids {
			if strings.Contains(strings.ToLower(c.idToName[id]), substr) {
				matching = append(matching, id)
			}
		}
	default:
		return nil, fmt.Errorf("category %q: unsupported rule %T", category, entry.rule)
	}

	return matching, nil
}

// GetItemIdsByCategory is the forgiving form of ResolveCategory: every
// failure collapses to an empty result with a logged diagnostic, and nothing
// escapes to the caller.
func (c *Catalog) GetItemIdsByCategory(ctx context.Context, category string) (ids []string) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Str("category", category).Msg("category resolution panicked")
			ids = nil
		}
	}()

	result, err := c.ResolveCategory(ctx, category)
	if err != nil {
		if errors.Is(err, ErrCatalogEmpty) || errors.Is(err, ErrBadPattern) {
			log.Error().Err(err).Str("category", category).Msg("cannot resolve category")
		} else {
			log.Warn().Err(err).Str("category", category).Msg("cannot resolve category")
		}
		return nil
	}

	if len(result) == 0 {
		log.Info().Str("category", category).Msg("no items found for category")
	} else {
		log.Debug().Str("category", category).Int("count", len(result)).Msg("category expanded")
	}
	return result
}
