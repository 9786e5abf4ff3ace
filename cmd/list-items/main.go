package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/codes4free/albion-scalper/config"
	"github.com/codes4free/albion-scalper/items"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	var settingsPath string
	var namesOnly bool

	flag.StringVar(&settingsPath, "settings", config.SettingsFileName, "Path to settings.yaml")
	flag.BoolVar(&namesOnly, "names", false, "Print display names instead of id/name pairs")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// Load env file from user config directory (same as main tool)
	config.LoadEnvFile()

	cfg, err := config.Load(settingsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading settings: %v\n", err)
		os.Exit(1)
	}

	catalog := items.NewCatalog(items.CatalogConfig{
		FilePath:   cfg.Items.File,
		Downloader: items.NewDownloader(items.DownloaderOpts{Url: cfg.Items.Url}),
	})

	ctx := context.Background()
	if err := catalog.Reload(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading item catalog: %v\n", err)
		os.Exit(1)
	}

	if namesOnly {
		for _, name := range catalog.GetAllItemNames(ctx) {
			fmt.Println(name)
		}
		return
	}

	for _, id := range catalog.GetAllItemIds(ctx) {
		name, _ := catalog.GetItemName(ctx, id)
		fmt.Printf("%s\t%s\n", id, name)
	}
}
