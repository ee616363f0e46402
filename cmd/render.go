package main

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bettercollective/embedforge/internal/brand"
	"github.com/bettercollective/embedforge/internal/dataset"
	"github.com/bettercollective/embedforge/internal/model"
	"github.com/bettercollective/embedforge/internal/rank"
	"github.com/bettercollective/embedforge/internal/render"
)

// widgetFlags holds the shared render inputs used by render, publish, and
// batch.
type widgetFlags struct {
	input     string
	sheet     string
	kind      string
	brandName string
	mode      string
	stateCol  string
	metricCol string
	topN      int

	title      string
	subtitle   string
	strapline  string
	legendLow  string
	legendHigh string
	highTitle  string
	highSub    string
	lowTitle   string
	lowSub     string
}

var (
	renderFlags widgetFlags
	renderOut   string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a widget HTML file from a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		html, _, err := buildWidget(renderFlags, "")
		if err != nil {
			return err
		}

		out := renderOut
		if out == "" {
			out = filepath.Join(cfg.Render.OutputDir, "widget.html")
		}
		if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
			return eris.Wrap(err, "create output dir")
		}
		if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
			return eris.Wrap(err, "write widget file")
		}

		zap.L().Info("rendered widget", zap.String("path", out))
		cmd.Println(out)
		return nil
	},
}

func init() {
	addWidgetFlags(renderCmd, &renderFlags)
	renderCmd.Flags().StringVar(&renderOut, "out", "", "output file path (default <output_dir>/widget.html)")
	rootCmd.AddCommand(renderCmd)
}

func addWidgetFlags(cmd *cobra.Command, f *widgetFlags) {
	cmd.Flags().StringVar(&f.input, "input", "", "input spreadsheet (.csv or .xlsx)")
	cmd.Flags().StringVar(&f.sheet, "sheet", "", "xlsx sheet name (default first sheet)")
	cmd.Flags().StringVar(&f.kind, "kind", "table", "widget kind: table, list, or map")
	cmd.Flags().StringVar(&f.brandName, "brand", brand.DefaultName, "brand theme")
	cmd.Flags().StringVar(&f.mode, "mode", "states", "dataset mode: states or cities")
	cmd.Flags().StringVar(&f.stateCol, "state-col", "State", "identity column header")
	cmd.Flags().StringVar(&f.metricCol, "metric-col", "", "metric column header")
	cmd.Flags().IntVar(&f.topN, "top-n", 0, "rows in high/low tables (default from config)")
	cmd.Flags().StringVar(&f.title, "title", "", "widget title")
	cmd.Flags().StringVar(&f.subtitle, "subtitle", "", "widget subtitle")
	cmd.Flags().StringVar(&f.strapline, "strapline", "", "map page strapline")
	cmd.Flags().StringVar(&f.legendLow, "legend-low", "Lowest", "map legend low label")
	cmd.Flags().StringVar(&f.legendHigh, "legend-high", "Highest", "map legend high label")
	cmd.Flags().StringVar(&f.highTitle, "high-title", "Highest", "high table title")
	cmd.Flags().StringVar(&f.highSub, "high-sub", "", "high table subtitle")
	cmd.Flags().StringVar(&f.lowTitle, "low-title", "Lowest", "low table title")
	cmd.Flags().StringVar(&f.lowSub, "low-sub", "", "low table subtitle")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("metric-col")
}

// buildWidget runs the full pipeline: load, select, rank, render. The
// embedURL may be empty before the first publish.
func buildWidget(f widgetFlags, embedURL string) (string, model.WidgetKind, error) {
	kind := model.WidgetKind(f.kind)
	if !kind.Valid() {
		return "", "", eris.Errorf("unknown widget kind %q", f.kind)
	}

	var table *dataset.Table
	var err error
	if f.sheet != "" {
		table, err = dataset.LoadXLSX(f.input, dataset.XLSXOptions{SheetName: f.sheet})
	} else {
		table, err = dataset.Load(f.input)
	}
	if err != nil {
		return "", "", err
	}

	rows, extras, err := table.Select(f.stateCol, f.metricCol)
	if err != nil {
		return "", "", err
	}

	topN := f.topN
	if topN <= 0 {
		topN = cfg.Render.TopN
	}
	res, err := rank.Prepare(rows, rank.Options{
		Mode: model.EntityMode(f.mode),
		TopN: topN,
	})
	if err != nil {
		return "", "", err
	}
	if res.Empty() {
		zap.L().Warn("no valid rows survived coercion",
			zap.Int("dropped", res.Dropped),
		)
	}

	reg, err := brandRegistry()
	if err != nil {
		return "", "", err
	}

	title := f.title
	if title == "" {
		title = f.metricCol + " by " + f.stateCol
	}

	html, err := render.Render(render.Params{
		Kind:          kind,
		Mode:          model.EntityMode(f.mode),
		Title:         title,
		Subtitle:      f.subtitle,
		Strapline:     f.strapline,
		IdentityLabel: f.stateCol,
		MetricLabel:   f.metricCol,
		ExtraColumns:  extras,
		LegendLow:     f.legendLow,
		LegendHigh:    f.legendHigh,
		HighTitle:     f.highTitle,
		HighSub:       f.highSub,
		LowTitle:      f.lowTitle,
		LowSub:        f.lowSub,
		EmbedURL:      embedURL,
		Brand:         reg.Get(f.brandName),
		Result:        res,
	})
	if err != nil {
		return "", "", err
	}
	return html, kind, nil
}

func brandRegistry() (*brand.Registry, error) {
	reg := brand.NewRegistry()
	if cfg.Brands.OverridesFile != "" {
		if err := reg.LoadOverrides(cfg.Brands.OverridesFile); err != nil {
			return nil, err
		}
	}
	return reg, nil
}
