package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cmmoran/eloquentts/pkg/action/snapshot"
)

func init() {
	rootCmd.AddCommand(NewSchemaCommand())
}

func NewSchemaCommand() *cobra.Command {
	schemaCmd := &cobra.Command{
		Use:   "schema",
		Short: "database schema snapshots",
	}

	var out string
	dumpCmd := &cobra.Command{
		Use:   "dump",
		Short: "write the live table list to a snapshot file",
		Long:  "Inspect the database and write its tables to a .yaml or .msgpack snapshot usable with --snapshot",
		PreRunE: func(c *cobra.Command, args []string) error {
			return bindFlags(c, databaseKeys)
		},
		RunE: func(c *cobra.Command, args []string) error {
			_, db, err := loadOptions()
			if err != nil {
				return err
			}
			tables, err := snapshot.Generate(c.Context(), db, out)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(c.OutOrStdout(), "%d tables written to %s\n", len(tables), out)
			return nil
		},
	}
	dumpCmd.Flags().StringVarP(&out, "output", "o", "schema.yaml", "snapshot file (.yaml, .yml, .msgpack, .mp)")
	addDatabaseFlags(dumpCmd)

	showCmd := &cobra.Command{
		Use:   "show FILE",
		Short: "list the tables of a snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			tables, err := snapshot.List(c.Context(), args[0])
			if err != nil {
				return err
			}
			for _, t := range tables {
				_, _ = fmt.Fprintf(c.OutOrStdout(), "%s\n", t.Name)
				for _, col := range t.Columns {
					_, _ = fmt.Fprintf(c.OutOrStdout(), "  %-24s %s\n", col.Name, col.DBType)
				}
			}
			return nil
		},
	}

	schemaCmd.AddCommand(dumpCmd, showCmd)
	return schemaCmd
}
