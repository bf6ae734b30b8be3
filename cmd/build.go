package cmd

import (
	"github.com/spf13/cobra"

	"adventune/folio/builder"
	"adventune/folio/site"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Builds the static site into the output directory",
	Long: `The build command loads posts, pages, projects and CV data, renders
every page of the site and writes it with the static assets to the configured
output directory (default './public/'). Files left over from earlier builds
are removed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := site.New(appConfig)
		if err != nil {
			return err
		}
		return builder.New(s, site.Static(), appConfig.OutputDir).Build()
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}
