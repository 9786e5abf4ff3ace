package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/codes4free/albion-scalper/config"
	"github.com/codes4free/albion-scalper/items"
	"github.com/lithammer/dedent"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var usage = strings.TrimSpace(dedent.Dedent(`
	usage: albion-scalper <category> [category...]

	Expands each named category to the item IDs matching its rule. Categories
	come from item_categories in settings.yaml and the optional custom
	categories file. The item file is downloaded on first run.
`))

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	config.LoadEnvFile()

	settingsPath := os.Getenv("SETTINGS_PATH")
	if settingsPath == "" {
		settingsPath = config.SettingsFileName
	}

	cfg, err := config.Load(settingsPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load settings")
	}

	if cfg.Logging.Level != "" {
		level, err := zerolog.ParseLevel(cfg.Logging.Level)
		if err != nil {
			log.Warn().Str("level", cfg.Logging.Level).Msg("unknown log level in settings, using default")
		} else {
			zerolog.SetGlobalLevel(level)
		}
	}

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	// Create context that cancels on SIGINT or SIGTERM so a slow item file
	// download can be interrupted.
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	catalog := items.NewCatalog(items.CatalogConfig{
		FilePath:             cfg.Items.File,
		CustomCategoriesFile: cfg.Items.CustomCategoriesFile,
		Categories:           rawCategories(cfg),
		Downloader:           items.NewDownloader(items.DownloaderOpts{Url: cfg.Items.Url}),
	})

	for _, category := range os.Args[1:] {
		ids := catalog.GetItemIdsByCategory(ctx, category)
		fmt.Printf("%s (%d items)\n", category, len(ids))
		for _, id := range ids {
			name, _ := catalog.GetItemName(ctx, id)
			fmt.Printf("  %s\t%s\n", id, name)
		}
	}
}

func rawCategories(cfg *config.Config) map[string]items.RawCategory {
	categories := make(map[string]items.RawCategory, len(cfg.ItemCategories))
	for name, rule := range cfg.ItemCategories {
		categories[name] = items.RawCategory{Type: rule.Type, Value: rule.Value}
	}
	return categories
}
