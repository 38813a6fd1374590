package commands

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/basel-ax/archrender/internal/blob"
	"github.com/basel-ax/archrender/internal/domain"
	"github.com/basel-ax/archrender/internal/service"
)

type generateOptions struct {
	imagePath  string
	prompt     string
	preset     string
	outputPath string
	showState  bool
}

var genOpts generateOptions

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Render an image from a reference image, prompt and preset",
	Long: `Upload the reference image, request a rendering and save it.

All three inputs are required; the request is not sent when one is missing.

Examples:
  archrender generate --image site.png --prompt "a glass tower at sunset"
  archrender generate --image site.png --prompt "a timber house" --preset "Modern Minimalism" -o house.png
  archrender generate --image site.png --prompt "melting facade" --preset Surrealism --state --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runGenerate(context.Background(), newRenderClient(), genOpts, cmd.OutOrStdout(), logger)
	},
}

func init() {
	generateCmd.Flags().StringVarP(&genOpts.imagePath, "image", "i", "", "reference image file")
	generateCmd.Flags().StringVarP(&genOpts.prompt, "prompt", "p", "", "text prompt")
	generateCmd.Flags().StringVar(&genOpts.preset, "preset", domain.DefaultPreset.String(), "style preset: Futuristic, Modern Minimalism or Surrealism")
	generateCmd.Flags().StringVarP(&genOpts.outputPath, "output", "o", "generated_image.png", "where to save the generated image")
	generateCmd.Flags().BoolVar(&genOpts.showState, "state", false, "print the final session state")
}

func runGenerate(ctx context.Context, api domain.RenderAPI, opts generateOptions, out io.Writer, log zerolog.Logger) error {
	sess := service.NewSession(api, blob.NewStore("cli"), log)
	defer sess.Close()

	if opts.imagePath != "" {
		img, err := loadImage(opts.imagePath)
		if err != nil {
			return err
		}
		sess.SetImage(img)
	}
	if opts.preset != "" {
		preset, err := domain.ParsePreset(opts.preset)
		if err != nil {
			return err
		}
		sess.SetPreset(preset)
	} else {
		sess.SetPreset("")
	}
	sess.SetPrompt(opts.prompt)

	if opts.imagePath != "" && opts.prompt != "" {
		PrintInfo("Rendering %s with preset %s", filepath.Base(opts.imagePath), opts.preset)
	}

	start := time.Now()
	handle, genErr := sess.Generate(ctx)
	st := sess.Snapshot()

	if opts.showState {
		if err := writeState(out, st, outputJSON); err != nil {
			return err
		}
	}

	if genErr != nil {
		printNotice(st.Notice)
		return genErr
	}

	result, err := sess.Result()
	if err != nil {
		return fmt.Errorf("failed to read result: %w", err)
	}
	if err := os.WriteFile(opts.outputPath, result.Data, 0o644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	PrintSuccess("Generated image saved to %s (%s, %s)", opts.outputPath, formatBytes(handle.Size), since(start))
	return nil
}

// loadImage reads a reference image from disk. The content type comes from
// the file extension, falling back to sniffing the bytes.
func loadImage(path string) (*domain.ImageSelection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image: %w", err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &domain.ImageSelection{
		Filename:    filepath.Base(path),
		ContentType: contentType,
		Data:        data,
	}, nil
}
