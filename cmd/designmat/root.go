// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/katalvlaran/lvformula/contrast"
	"github.com/katalvlaran/lvformula/design"
	"github.com/katalvlaran/lvformula/formula"
	"github.com/katalvlaran/lvformula/frame"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// cliOptions holds the parsed flags of one invocation.
type cliOptions struct {
	formula            string
	data               string
	schema             string
	contrast           string
	format             string
	verbose            bool
	byDegree           bool
	allowRankDeficient bool

	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	o := &cliOptions{}
	cmd := &cobra.Command{
		Use:   "designmat",
		Short: "Build the design matrix of a linear model",
		Long: `designmat reads a CSV table whose column kinds, levels and baselines are
declared in a YAML schema, expands a model formula such as "rt ~ gender*group"
and prints the resulting design matrix.

Rows with a missing value (see na_values in the schema) in any schema column
are dropped before the build.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			if o.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			if o.logger, err = config.Build(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if o.logger != nil {
				_ = o.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, o)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&o.formula, "formula", "f", "", "model formula, e.g. \"y ~ a*b\"")
	flags.StringVarP(&o.data, "data", "d", "", "CSV file with a header row")
	flags.StringVarP(&o.schema, "schema", "s", "", "YAML schema declaring every used column")
	flags.StringVarP(&o.contrast, "contrast", "c", contrast.NameTreatment, "contrast scheme: treatment, sum or helmert")
	flags.StringVar(&o.format, "format", formatText, "output format: text, csv or json")
	flags.BoolVar(&o.byDegree, "by-degree", false, "order terms main effects first")
	flags.BoolVar(&o.allowRankDeficient, "allow-rank-deficient", false, "keep collinear designs instead of failing")
	cmd.PersistentFlags().BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logging")
	for _, name := range []string{"formula", "data", "schema"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func run(cmd *cobra.Command, o *cliOptions) error {
	write, err := writerFor(o.format)
	if err != nil {
		return err
	}
	scheme, err := contrast.ByName(o.contrast)
	if err != nil {
		return err
	}
	f, err := formula.Parse(o.formula)
	if err != nil {
		return err
	}
	schema, err := frame.LoadSchema(o.schema)
	if err != nil {
		return err
	}

	in, err := os.Open(o.data)
	if err != nil {
		return fmt.Errorf("open data: %w", err)
	}
	defer in.Close()
	tbl, err := frame.ReadCSV(in, schema)
	if err != nil {
		return err
	}
	o.logger.Debug("table loaded",
		zap.String("path", o.data),
		zap.Int("rows", tbl.Rows()),
		zap.Strings("columns", tbl.Names()))

	opts := []design.Option{design.WithLogger(o.logger)}
	if o.byDegree {
		opts = append(opts, design.WithTermOrderByDegree())
	}
	if o.allowRankDeficient {
		opts = append(opts, design.WithAllowRankDeficient())
	}
	m, err := design.Build(f, tbl, scheme, opts...)
	if err != nil {
		return err
	}

	return write(cmd.OutOrStdout(), report{formula: f, scheme: scheme.Name(), m: m})
}
