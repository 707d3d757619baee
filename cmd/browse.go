package cmd

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/slide-gallery/internal/tui"
	"github.com/ziadkadry99/slide-gallery/internal/widget"
)

var browseLog string

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse the slide gallery in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		// The terminal belongs to the UI; logs go to --log or nowhere.
		var out io.Writer = io.Discard
		if browseLog != "" {
			f, err := os.OpenFile(browseLog, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
			if err != nil {
				return err
			}
			defer f.Close()
			out = f
		}
		logger := newLogger(cfg, out)
		slog.SetDefault(logger)

		c, err := newClients(cfg, logger)
		if err != nil {
			return err
		}

		m := tui.New(context.Background(), widget.NewGallery(c.index, c.fragments, logger))
		_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
		return err
	},
}

func init() {
	browseCmd.Flags().StringVar(&browseLog, "log", "", "append logs to this file")
	rootCmd.AddCommand(browseCmd)
}
