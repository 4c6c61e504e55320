package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leetion.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "leetion.db", cfg.CachePath)
	assert.Equal(t, "repos", cfg.ReposDir)
	assert.Equal(t, 30, cfg.SpacedRepetitionDays)
	assert.Empty(t, cfg.APIKey)
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, "api_key: file-key\ndatabase_id: db-from-file\nspaced_repetition_days: 14\n")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
	assert.Equal(t, "db-from-file", cfg.DatabaseID)
	assert.Equal(t, 14, cfg.SpacedRepetitionDays)
	assert.Equal(t, "leetion.db", cfg.CachePath, "unset keys keep their defaults")
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "leetion.db", cfg.CachePath)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "api_key: file-key\n")
	t.Setenv("LEETION_API_KEY", "env-key")
	t.Setenv("LEETION_VERBOSE", "true")

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
	assert.True(t, cfg.Verbose)
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("LEETION_API_KEY", "env-key")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("api-key", "", "")
	flags.String("database-id", "", "")
	require.NoError(t, flags.Parse([]string{"--api-key", "flag-key"}))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "flag-key", cfg.APIKey, "a set flag wins over the environment")
}

func TestLoadUnchangedFlagDoesNotClobber(t *testing.T) {
	t.Setenv("LEETION_DATABASE_ID", "env-db")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("database-id", "", "")
	require.NoError(t, flags.Parse(nil))

	cfg, err := Load("", flags)
	require.NoError(t, err)
	assert.Equal(t, "env-db", cfg.DatabaseID, "an unset flag must not override the environment")
}
