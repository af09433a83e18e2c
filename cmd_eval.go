package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/geomkit/pkg/engine"
	"github.com/chazu/geomkit/pkg/geom"
)

// evalConfig is the resolved configuration of one `geomkit eval` run.
type evalConfig struct {
	Format string
	STLDir string
	Jobs   int
	App    Config
}

var formats = []string{"text", "json", "yaml", "geojson"}

func newEvalCmd() *cobra.Command {
	conf := viper.New()
	cmd := &cobra.Command{
		Use:   "eval FILE...",
		Short: "Evaluate geometry programs",
		Long: `
Evaluate one or more geometry programs, validate the scenes they build and
print their reports. Files are evaluated concurrently.
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadEvalConfig(cmd, conf)
			if err != nil {
				return err
			}
			return runEval(cmd.Context(), cmd.OutOrStdout(), cfg, args)
		},
	}

	flags := cmd.Flags()
	flags.String("format", "text", "Output format, one of ["+strings.Join(formats, ", ")+"].")
	flags.Float64("epsilon", geom.DefaultEpsilon, "Initial comparison tolerance of every program.")
	flags.String("stl_dir", "", "Write one STL file per surface under this directory.")
	flags.Float64("rod_radius", 0, "Mesh 3D segments as rods of this radius (0 disables).")
	flags.Int("jobs", 4, "Number of files evaluated concurrently.")
	flags.Duration("timeout", engine.EvalTimeout, "Evaluation time limit per file.")

	conf.SetEnvPrefix("GEOMKIT")
	conf.AutomaticEnv()
	if err := conf.BindPFlags(flags); err != nil {
		panic(err)
	}
	return cmd
}

// loadEvalConfig resolves flags, GEOMKIT_* environment variables and the
// optional config file, in that order of precedence.
func loadEvalConfig(cmd *cobra.Command, conf *viper.Viper) (evalConfig, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		conf.SetConfigFile(path)
		if err := conf.ReadInConfig(); err != nil {
			return evalConfig{}, errors.Wrapf(err, "reading config %s", path)
		}
	}

	cfg := evalConfig{
		Format: strings.ToLower(conf.GetString("format")),
		STLDir: conf.GetString("stl_dir"),
		Jobs:   conf.GetInt("jobs"),
		App: Config{
			Epsilon:   conf.GetFloat64("epsilon"),
			Timeout:   conf.GetDuration("timeout"),
			RodRadius: conf.GetFloat64("rod_radius"),
		},
	}
	if !lo.Contains(formats, cfg.Format) {
		return cfg, errors.Errorf("unknown format %q, want one of %v", cfg.Format, formats)
	}
	if cfg.Jobs < 1 {
		return cfg, errors.Errorf("jobs must be at least 1, got %d", cfg.Jobs)
	}
	if cfg.App.Epsilon < 0 {
		return cfg, errors.Errorf("epsilon must be non-negative, got %g", cfg.App.Epsilon)
	}
	if cfg.App.Timeout <= 0 {
		cfg.App.Timeout = engine.EvalTimeout
	}
	return cfg, nil
}

// runEval evaluates files concurrently and writes their results to out in
// argument order. Files with evaluation errors are reported and make the
// run fail; unreadable files abort it.
func runEval(ctx context.Context, out io.Writer, cfg evalConfig, files []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	results := make([]fileResult, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Jobs)
	for i, path := range files {
		g.Go(func() error {
			src, err := os.ReadFile(path)
			if err != nil {
				return errors.Wrapf(err, "reading %s", path)
			}

			start := time.Now()
			glog.V(1).Infof("Evaluating %s", path)
			app := NewAppWithConfig(cfg.App)
			res := app.EvaluateContext(ctx, string(src))
			fr := fileResult{File: path, EvalResult: res}

			if cfg.STLDir != "" && len(res.Errors) == 0 {
				dir := filepath.Join(cfg.STLDir, stem(path))
				paths, err := app.ExportSTL(res, dir)
				if err != nil {
					return errors.Wrapf(err, "exporting %s", path)
				}
				fr.STL = paths
			}
			for _, e := range res.Errors {
				glog.Errorf("%s: %s", path, e.Message)
			}
			glog.V(1).Infof("Evaluated %s in %s", path, time.Since(start))

			results[i] = fr
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := writeResults(out, cfg.Format, results); err != nil {
		return err
	}
	failed := lo.CountBy(results, func(r fileResult) bool { return len(r.Errors) > 0 })
	if failed > 0 {
		return fmt.Errorf("%d of %d files had errors", failed, len(results))
	}
	return nil
}

// stem returns the file name without directory or extension.
func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
