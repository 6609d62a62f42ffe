package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"order-analytics/config"
	"order-analytics/internal/dataset/datasettest"
	"order-analytics/internal/loader"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func csvConfig(dir string) *config.Config {
	return &config.Config{
		Data: config.DataConfig{Source: config.DataSourceCSV, Dir: dir},
		Analytics: config.AnalyticsConfig{
			CleanOrders:   true,
			CleanProducts: true,
		},
	}
}

func TestOpen_CSVNeedsNoCollaborators(t *testing.T) {
	deps, err := Open(csvConfig(t.TempDir()))
	require.NoError(t, err)
	defer deps.Close()

	assert.Nil(t, deps.Cache())
	assert.Nil(t, deps.Publisher())
	assert.Empty(t, deps.ReadinessChecks())
}

func TestOpen_UnknownSource(t *testing.T) {
	cfg := csvConfig("")
	cfg.Data.Source = "parquet"

	_, err := Open(cfg)
	assert.ErrorContains(t, err, "parquet")
}

func TestSource_PostgresWithoutStore(t *testing.T) {
	cfg := csvConfig("")
	cfg.Data.Source = config.DataSourcePostgres

	_, err := Source(cfg, &Deps{})
	assert.Error(t, err)
}

func TestOptions(t *testing.T) {
	cfg := csvConfig("")
	cfg.Analytics.Dense = true
	cfg.Analytics.CleanProducts = false
	cfg.Analytics.TopN = 3

	opts := Options(cfg)

	assert.True(t, opts.Daily.Dense)
	assert.NotEmpty(t, opts.Rules.Orders)
	assert.Empty(t, opts.Rules.Products)
	assert.Equal(t, 3, opts.TopN)
}

func TestSettings(t *testing.T) {
	ref := time.Date(2018, 9, 1, 0, 0, 0, 0, time.UTC)
	cfg := csvConfig("")
	cfg.Analytics.ReferenceDate = &ref
	cfg.Redis.TTL = time.Minute

	s := Settings(cfg)

	assert.Equal(t, &ref, s.Reference)
	assert.Equal(t, time.Minute, s.CacheTTL)
}

func TestLoadDataset_FromCSVDirectory(t *testing.T) {
	dir := t.TempDir()
	for name, data := range datasettest.Files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, loader.DefaultFiles[name]), []byte(data), 0o644))
	}

	ds, err := LoadDataset(context.Background(), csvConfig(dir), &Deps{})

	require.NoError(t, err)
	assert.Len(t, ds.Joined, 5)
}
