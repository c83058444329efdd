package cmd

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cmmoran/eloquentts/internal/watch"
	"github.com/cmmoran/eloquentts/pkg/action/generate"
)

func init() {
	rootCmd.AddCommand(NewGenerateCommand())
}

func NewGenerateCommand() *cobra.Command {
	var (
		tag     string
		watchIt bool
	)

	// generateCmd represents the eloquentts generate command
	var generateCmd = &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "generate TypeScript models",
		Long:    "Convert every model class to a TypeScript class or enum, merging the database columns of its table",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindFlags(c, generatorKeys, databaseKeys)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, db, err := loadOptions()
			if err != nil {
				return err
			}
			run := func(ctx context.Context) error {
				report, err := generate.Run(ctx, opts, db, tag)
				if report != nil {
					_, _ = fmt.Fprint(c.OutOrStdout(), generate.Summary(report))
				}
				if err != nil {
					return err
				}
				if n := len(report.Failed()); n > 0 {
					return fmt.Errorf("%d file(s) failed", n)
				}
				return nil
			}

			if !watchIt {
				return run(c.Context())
			}
			if err := run(c.Context()); err != nil {
				slog.With("error", err).Error("initial generation incomplete")
			}
			w := &watch.Watcher{Dirs: opts.Sources, Ext: opts.SourceExt, OnChange: run}
			return w.Run(c.Context())
		},
	}
	generateCmd.Flags().StringVar(&tag, "tag", "", "version recorded in the manifest (defaults to a timestamp)")
	generateCmd.Flags().BoolVarP(&watchIt, "watch", "w", false, "regenerate whenever a source file changes")
	addGeneratorFlags(generateCmd)
	addDatabaseFlags(generateCmd)

	return generateCmd
}
