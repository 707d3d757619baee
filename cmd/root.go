package cmd

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "slidegallery",
	Short: "Slide gallery widget for a headless content origin",
	Long: `slidegallery fetches a slide index from a content origin and renders it as
a gallery of cards. Activating a card opens a panel with the slide's
detail fragment. The gallery can be embedded in a web page through
` + "`slidegallery serve`" + `, browsed in the terminal, or checked for broken slides.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env with SLIDEGALLERY_* overrides.
		_ = godotenv.Load()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".slidegallery.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
