package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/eloquentts/pkg/action/diff"
)

var ErrPendingChanges = errors.New("generated files are out of date")

func init() {
	rootCmd.AddCommand(NewDiffCommand())
}

func NewDiffCommand() *cobra.Command {
	var exitCode bool

	var diffCmd = &cobra.Command{
		Use:   "diff",
		Short: "show what generate would change",
		Long:  "Regenerate in memory and print the difference to the files on disk, without writing",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindFlags(c, generatorKeys, databaseKeys)
		},
		RunE: func(c *cobra.Command, args []string) error {
			opts, db, err := loadOptions()
			if err != nil {
				return err
			}
			res, err := diff.Run(c.Context(), opts, db)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprint(c.OutOrStdout(), res.Format())
			if exitCode && len(res.Changes) > 0 {
				return ErrPendingChanges
			}
			return nil
		},
	}
	diffCmd.Flags().BoolVar(&exitCode, "exit-code", false, "fail when any file would change")
	addGeneratorFlags(diffCmd)
	addDatabaseFlags(diffCmd)

	return diffCmd
}
