package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bettercollective/embedforge/internal/config"
)

func testConfig(t *testing.T) {
	t.Helper()
	prev := cfg
	cfg = &config.Config{
		Render: config.RenderConfig{OutputDir: t.TempDir(), TopN: 10},
	}
	t.Cleanup(func() { cfg = prev })
}

func writeStatesCSV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "states.csv")
	content := "State,Interest,Region\n" +
		"California,33.5%,West\n" +
		"Texas,\"1,200\",South\n" +
		"Atlantis,99,Nowhere\n" +
		"Vermont,10,Northeast\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestBuildWidget(t *testing.T) {
	testConfig(t)

	f := widgetFlags{
		input:     writeStatesCSV(t),
		kind:      "table",
		mode:      "states",
		stateCol:  "State",
		metricCol: "Interest",
		title:     "Interest by State",
	}

	html, kind, err := buildWidget(f, "https://acme.github.io/widgets/w1.html")
	require.NoError(t, err)
	assert.Equal(t, "table", string(kind))
	assert.Contains(t, html, "Interest by State")
	assert.Contains(t, html, "California")
	// The metric header appears exactly once; it is not repeated among the
	// extra columns.
	assert.Equal(t, 1, strings.Count(html, ">Interest</th>"))
	// The fictional state was dropped by normalization.
	assert.NotContains(t, html, "Atlantis")
}

func TestBuildWidget_DefaultTitle(t *testing.T) {
	testConfig(t)

	f := widgetFlags{
		input:     writeStatesCSV(t),
		kind:      "list",
		mode:      "states",
		stateCol:  "State",
		metricCol: "Interest",
	}

	html, _, err := buildWidget(f, "")
	require.NoError(t, err)
	assert.Contains(t, html, "Interest by State")
}

func TestBuildWidget_UnknownKind(t *testing.T) {
	testConfig(t)

	f := widgetFlags{input: "x.csv", kind: "donut", metricCol: "Interest"}
	_, _, err := buildWidget(f, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown widget kind")
}

func TestBuildWidget_MissingColumn(t *testing.T) {
	testConfig(t)

	f := widgetFlags{
		input:     writeStatesCSV(t),
		kind:      "table",
		mode:      "states",
		stateCol:  "State",
		metricCol: "Votes",
	}
	_, _, err := buildWidget(f, "")
	require.Error(t, err)
}

func TestRunBatchJob(t *testing.T) {
	testConfig(t)

	out, err := runBatchJob(batchJob{
		Input:     writeStatesCSV(t),
		Kind:      "map",
		MetricCol: "Interest",
		Title:     "Interest Map",
	})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Interest Map")
	assert.Contains(t, string(data), "cdn.plot.ly")
	assert.Equal(t, "states_map.html", filepath.Base(out))
}

func TestRunBatchJob_ExplicitOut(t *testing.T) {
	testConfig(t)

	out, err := runBatchJob(batchJob{
		Input:     writeStatesCSV(t),
		MetricCol: "Interest",
		Out:       "custom.html",
	})
	require.NoError(t, err)
	assert.Equal(t, "custom.html", filepath.Base(out))
}

func TestDefaultIfEmpty(t *testing.T) {
	assert.Equal(t, "table", defaultIfEmpty("", "table"))
	assert.Equal(t, "map", defaultIfEmpty("map", "table"))
}
