package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cmmoran/eloquentts/pkg/manifest"
)

func init() {
	rootCmd.AddCommand(NewManifestCommand())
}

func NewManifestCommand() *cobra.Command {
	manifestCmd := &cobra.Command{
		Use:   "manifest",
		Short: "inspect the generation manifest",
	}
	manifestCmd.PersistentFlags().StringP("manifest", "m", "", "manifest file")
	load := func(c *cobra.Command) (*manifest.Manifest, error) {
		if err := viper.BindPFlag("generator.manifest", c.Flags().Lookup("manifest")); err != nil {
			return nil, err
		}
		path := viper.GetString("generator.manifest")
		if path == "" {
			return nil, fmt.Errorf("no manifest configured")
		}
		return manifest.Load(path)
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := load(c)
			if err != nil {
				return err
			}
			for _, r := range m.Runs {
				marker := " "
				if r.Version == m.CurrentVersion {
					marker = "*"
				}
				_, _ = fmt.Fprintf(c.OutOrStdout(), "%s %s  %s  %d files\n", marker, r.Version, r.Time.Format("2006-01-02 15:04:05"), len(r.Entries))
			}
			return nil
		},
	}

	staleCmd := &cobra.Command{
		Use:   "stale",
		Short: "list outputs the latest run no longer produced",
		RunE: func(c *cobra.Command, args []string) error {
			m, err := load(c)
			if err != nil {
				return err
			}
			for _, f := range m.Stale() {
				_, _ = fmt.Fprintln(c.OutOrStdout(), f)
			}
			return nil
		},
	}

	manifestCmd.AddCommand(listCmd, staleCmd)
	return manifestCmd
}
