package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// batchJob is one entry in the batch manifest.
type batchJob struct {
	Input     string `yaml:"input"`
	Sheet     string `yaml:"sheet"`
	Kind      string `yaml:"kind"`
	Brand     string `yaml:"brand"`
	Mode      string `yaml:"mode"`
	StateCol  string `yaml:"state_col"`
	MetricCol string `yaml:"metric_col"`
	TopN      int    `yaml:"top_n"`
	Title     string `yaml:"title"`
	Subtitle  string `yaml:"subtitle"`
	Strapline string `yaml:"strapline"`
	Out       string `yaml:"out"`
}

type batchManifest struct {
	Jobs []batchJob `yaml:"jobs"`
}

var batchManifestPath string

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Render multiple widgets from a YAML manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		data, err := os.ReadFile(batchManifestPath)
		if err != nil {
			return eris.Wrap(err, "read manifest")
		}
		var manifest batchManifest
		if err := yaml.Unmarshal(data, &manifest); err != nil {
			return eris.Wrap(err, "parse manifest")
		}
		if len(manifest.Jobs) == 0 {
			zap.L().Info("manifest has no jobs")
			return nil
		}

		for i, job := range manifest.Jobs {
			if job.Input == "" || job.MetricCol == "" {
				return eris.Errorf("job %d: input and metric_col are required", i)
			}
		}

		zap.L().Info("rendering batch",
			zap.Int("jobs", len(manifest.Jobs)),
			zap.Int("concurrency", cfg.Batch.MaxConcurrentJobs),
		)

		var done atomic.Int64
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(cfg.Batch.MaxConcurrentJobs)

		for i, job := range manifest.Jobs {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				out, err := runBatchJob(job)
				if err != nil {
					return eris.Wrapf(err, "job %d (%s)", i, job.Input)
				}
				done.Add(1)
				zap.L().Info("rendered batch job",
					zap.Int("job", i),
					zap.String("out", out),
				)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch complete", zap.Int64("rendered", done.Load()))
		return nil
	},
}

func runBatchJob(job batchJob) (string, error) {
	f := widgetFlags{
		input:      job.Input,
		sheet:      job.Sheet,
		kind:       defaultIfEmpty(job.Kind, "table"),
		brandName:  job.Brand,
		mode:       defaultIfEmpty(job.Mode, "states"),
		stateCol:   defaultIfEmpty(job.StateCol, "State"),
		metricCol:  job.MetricCol,
		topN:       job.TopN,
		title:      job.Title,
		subtitle:   job.Subtitle,
		strapline:  job.Strapline,
		legendLow:  "Lowest",
		legendHigh: "Highest",
		highTitle:  "Highest",
		lowTitle:   "Lowest",
	}

	html, _, err := buildWidget(f, "")
	if err != nil {
		return "", err
	}

	out := job.Out
	if out == "" {
		base := strings.TrimSuffix(filepath.Base(job.Input), filepath.Ext(job.Input))
		out = base + "_" + f.kind + ".html"
	}
	out = filepath.Join(cfg.Render.OutputDir, out)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		return "", eris.Wrap(err, "create output dir")
	}
	if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
		return "", eris.Wrap(err, "write widget file")
	}
	return out, nil
}

func defaultIfEmpty(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func init() {
	batchCmd.Flags().StringVar(&batchManifestPath, "manifest", "batch.yaml", "batch manifest file")
	rootCmd.AddCommand(batchCmd)
}
