package items

import (
	"bufio"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// loadCustomCategories reads the supplementary custom-categories file: one
// `itemId,categoryName[,moreCategories...]` per line, blank lines and `#`
// comments skipped. Each category accumulates item IDs in file order. A
// category name ending in "s" also registers its singular form as an alias
// for the same IDs, so "Bags" in the file answers for "Bag" too.
//
// A missing file just means no custom categories; malformed lines are skipped
// individually.
func loadCustomCategories(path string) map[string][]string {
	categories := make(map[string][]string)

	file, err := os.Open(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("could not open custom categories file")
		}
		return categories
	}
	defer file.Close()

	lineNo := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, ",")
		if len(fields) < 2 {
			log.Debug().Int("line", lineNo).Str("path", path).Msg("skipping malformed custom category line")
			continue
		}

		itemId := strings.TrimSpace(fields[0])
		if itemId == "" {
			continue
		}
		for _, name := range fields[1:] {
			category := strings.TrimSpace(name)
			if category == "" {
				continue
			}
			categories[category] = append(categories[category], itemId)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("error reading custom categories file")
	}

	// Singular aliases share the plural's ID slice. Collected first so the
	// aliases themselves are not re-aliased.
	aliases := make(map[string][]string)
	for name, ids := range categories {
		if !strings.HasSuffix(name, "s") {
			continue
		}
		singular := strings.TrimSuffix(name, "s")
		if _, exists := categories[singular]; !exists && singular != "" {
			aliases[singular] = ids
		}
	}
	for name, ids := range aliases {
		categories[name] = ids
	}

	return categories
}
