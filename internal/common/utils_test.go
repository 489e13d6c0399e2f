package common

import (
	"bytes"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/recipe-features/models"
	"github.com/dtnitsch/recipe-features/pkg/similarity"
)

func newContext(t *testing.T, args ...string) *cli.Context {
	t.Helper()
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	set.Float64("threshold", 0, "")
	set.String("scorer", "", "")
	set.Bool("transitive", false, "")
	set.Int("min-frequency", 0, "")
	set.String("filter", "", "")
	set.Int("workers", 0, "")
	set.Bool("images", false, "")
	set.Duration("cache-ttl", 0, "")
	set.String("config", "", "")
	require.NoError(t, set.Parse(args))
	return cli.NewContext(cli.NewApp(), set, nil)
}

func TestApplyFlags(t *testing.T) {
	cfg := models.DefaultConfig()
	ApplyFlags(newContext(t, "--threshold", "0.9", "--workers", "8", "--images=false", "--cache-ttl", "1h"), cfg)

	assert.Equal(t, 0.9, cfg.Similarity.Threshold)
	assert.Equal(t, 8, cfg.Scrape.WorkerCount)
	assert.False(t, cfg.Scrape.Images)
	assert.Equal(t, time.Hour, cfg.Scrape.CacheTTL)
	// Untouched flags keep the defaults.
	assert.Equal(t, "lcs", cfg.Similarity.Scorer)
	assert.Equal(t, 5, cfg.Features.MinFrequency)
}

func TestLoadConfig_RejectsBadThreshold(t *testing.T) {
	_, err := LoadConfig(newContext(t, "--threshold", "2"))
	assert.Error(t, err)
}

func TestMerger(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Similarity.Transitive = true
	m, err := Merger(cfg)
	require.NoError(t, err)

	pm, ok := m.(*similarity.PairwiseMerger)
	require.True(t, ok)
	assert.True(t, pm.Transitive)
	assert.Equal(t, 0.75, pm.Threshold)

	cfg.Similarity.Scorer = "soundex"
	_, err = Merger(cfg)
	assert.Error(t, err)
}

func TestUnifier_UsesOverrides(t *testing.T) {
	cfg := models.DefaultConfig()
	cfg.Units = map[string]float64{"cups": 250}
	assert.Equal(t, "500.00 grams flour", Unifier(cfg).UnifyLine("2 cups flour"))
}

func TestRenderTable(t *testing.T) {
	var buf bytes.Buffer
	RenderTable(&buf, table.Row{"Name", "Count"}, []table.Row{{"egg", 6}})
	out := buf.String()
	assert.True(t, strings.Contains(out, "NAME") || strings.Contains(out, "Name"), out)
	assert.Contains(t, out, "egg")
}
