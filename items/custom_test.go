package items

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCustomCategoriesFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "custom_categories.txt")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadCustomCategories(t *testing.T) {
	path := writeCustomCategoriesFile(t, `
# my hand-picked flipping targets
T4_WOOD_LOG,Woods

T4_ROCK,Woods,Rocks
this line has no comma
T4_BAG,Bags
`)

	categories := loadCustomCategories(path)
	assert.Equal(t, []string{"T4_WOOD_LOG", "T4_ROCK"}, categories["Woods"])
	assert.Equal(t, []string{"T4_ROCK"}, categories["Rocks"])
	assert.Equal(t, []string{"T4_BAG"}, categories["Bags"])
}

func TestLoadCustomCategoriesSingularAlias(t *testing.T) {
	path := writeCustomCategoriesFile(t, "T4_BAG,Bags\nT4_ROCK,Granite\n")

	categories := loadCustomCategories(path)
	assert.Equal(t, categories["Bags"], categories["Bag"])
	// No alias when the name doesn't end in "s"
	_, ok := categories["Granit"]
	assert.False(t, ok)
}

func TestLoadCustomCategoriesAliasDoesNotOverwrite(t *testing.T) {
	path := writeCustomCategoriesFile(t, "T4_BAG,Bags\nT5_BAG,Bag\n")

	categories := loadCustomCategories(path)
	assert.Equal(t, []string{"T4_BAG"}, categories["Bags"])
	assert.Equal(t, []string{"T5_BAG"}, categories["Bag"])
}

func TestLoadCustomCategoriesTrimsFields(t *testing.T) {
	path := writeCustomCategoriesFile(t, "  T4_BAG , Bags \n")

	categories := loadCustomCategories(path)
	assert.Equal(t, []string{"T4_BAG"}, categories["Bags"])
}

func TestLoadCustomCategoriesMissingFile(t *testing.T) {
	categories := loadCustomCategories(filepath.Join(t.TempDir(), "does_not_exist.txt"))
	assert.Empty(t, categories)
}
