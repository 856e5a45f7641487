package iofs

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/seafront/seafront/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestEnsureDirs(t *testing.T) {
	home := t.TempDir()

	for range 2 {
		require.NoError(t, EnsureDirs(home))
	}

	for _, dir := range []string{
		filepath.Join(home, ".config", "seafront"),
		filepath.Join(home, ".cache", "seafront"),
		filepath.Join(home, ".local", "share", "seafront", "logs"),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err, dir)
		assert.True(t, info.IsDir(), dir)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm(), dir)
	}
}

func TestTouchDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.NoError(t, touchDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	require.NoError(t, touchDir(dir))
}

func TestTouchDirOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	assert.Error(t, touchDir(filepath.Join(path, "sub")))
}

func TestEnsureFiles(t *testing.T) {
	tests := []struct {
		name   string
		ensure func(string) error
		path   func(string) string
		embed  string
	}{
		{"config", EnsureConfigFile, config.ConfigFilePath, ConfigYAML},
		{"datasets", EnsureDatasetsFile, config.DatasetsFilePath, DatasetsYAML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := t.TempDir()
			require.NoError(t, EnsureDirs(home))
			require.NoError(t, tt.ensure(home))

			path := tt.path(home)
			content, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, tt.embed, string(content))

			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Equal(t, os.FileMode(0644), info.Mode().Perm())

			custom := "# edited by user\n"
			require.NoError(t, os.WriteFile(path, []byte(custom), 0644))
			require.NoError(t, tt.ensure(home))
			content, err = os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, custom, string(content))
		})
	}
}

func TestEnsureFilesWithoutDirs(t *testing.T) {
	home := t.TempDir()
	assert.Error(t, EnsureConfigFile(home))
	assert.Error(t, EnsureDatasetsFile(home))
}

func TestEnsureDataDirs(t *testing.T) {
	root := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptCacheRawDir(filepath.Join(root, "raw_h5ad")),
		config.OptCacheMetaDir(filepath.Join(root, "meta")),
	})
	require.NoError(t, EnsureDataDirs(cfg))
	for _, d := range []string{cfg.Cache.RawDir, cfg.Cache.MetaDir} {
		info, err := os.Stat(d)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

// Embedded config must agree with config.New defaults.
func TestConfigYAMLDefaults(t *testing.T) {
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(ConfigYAML), &cfg))

	def := config.New()
	assert.Equal(t, def.Census, cfg.Census)
	assert.Equal(t, def.Cache, cfg.Cache)
	assert.Equal(t, def.Filter, cfg.Filter)
	assert.Equal(t, def.Genes, cfg.Genes)
	assert.Equal(t, def.Database, cfg.Database)
	assert.Equal(t, def.Log, cfg.Log)
}

func TestDatasetsYAMLEmbedded(t *testing.T) {
	assert.True(t, strings.HasPrefix(DatasetsYAML, "#"))
	assert.Contains(t, DatasetsYAML, "ainciburu2023")
	assert.Contains(t, DatasetsYAML, "GSE180298_RAW.tar")
}
