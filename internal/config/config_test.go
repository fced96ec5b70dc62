package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Load_missing_file_returns_zero_value(t *testing.T) {
	assert := assert.New(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)
	assert.Equal(Config{}, cfg)
}

func Test_Load_parses_document(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "simc.toml")
	doc := "parser = \"lr1\"\nconflicts = \"reduce-over-shift\"\ntable_cache = \"tables.db\"\n"
	require.NoError(os.WriteFile(path, []byte(doc), 0644))

	cfg, err := Load(path)
	require.NoError(err)
	assert.Equal(AlgorithmLR1, cfg.Parser)
	assert.Equal(ReduceOverShift, cfg.Conflicts)
	assert.Equal("tables.db", cfg.TableCache)
}

func Test_FillDefaults(t *testing.T) {
	assert := assert.New(t)

	cfg := Config{}.FillDefaults()
	assert.Equal(AlgorithmSLR1, cfg.Parser)
	assert.Equal(ShiftOverReduce, cfg.Conflicts)
	assert.Equal("grammar.yaml", cfg.GrammarFile)
	assert.Equal("mapping.yaml", cfg.MappingFile)
}

func Test_Validate_rejects_unknown_values(t *testing.T) {
	require := require.New(t)

	cfg := Config{Parser: "bogus"}.FillDefaults()
	cfg.Parser = "bogus"
	require.Error(cfg.Validate())

	cfg2 := Config{}.FillDefaults()
	cfg2.Conflicts = "bogus"
	require.Error(cfg2.Validate())

	require.NoError(Config{}.FillDefaults().Validate())
}
