package commands

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/basel-ax/archrender/internal/config"
	"github.com/basel-ax/archrender/internal/infrastructure/logging"
	"github.com/basel-ax/archrender/internal/infrastructure/renderapi"
)

var (
	// Global flags
	renderURL  string
	outputJSON bool
	verbose    bool

	cfg    *config.Config
	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "archrender",
	Short: "AI architectural rendering client",
	Long: `archrender sends a reference image, a prompt and a style preset to a
rendering backend and shows the generated image.

The backend must expose POST /upload and POST /generate. Its address is read
from RENDER_BASE_URL (default http://127.0.0.1:5000) or --render-url.

Examples:
  # Render once and save the result
  archrender generate --image site.png --prompt "a glass tower at sunset" --preset Futuristic

  # Open the browser UI on http://127.0.0.1:3000
  archrender serve`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if renderURL != "" {
			cfg.RenderBaseURL = renderURL
			if err := cfg.Validate(); err != nil {
				return err
			}
		}
		logger = logging.New(cfg.AppEnv, verbose)
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&renderURL, "render-url", "", "rendering backend base URL (overrides RENDER_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "print session state as JSON instead of YAML")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(presetsCmd)
}

func newRenderClient() *renderapi.Client {
	var opts []renderapi.Option
	if cfg.RenderTimeout > 0 {
		opts = append(opts, renderapi.WithTimeout(cfg.RenderTimeout))
	}
	return renderapi.NewClient(cfg.RenderBaseURL, opts...)
}

func formatBytes(n int) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}

func since(start time.Time) string {
	return time.Since(start).Round(time.Millisecond).String()
}
