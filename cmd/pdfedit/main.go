package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dgallion1/pdfedit/internal/config"
	"github.com/dgallion1/pdfedit/internal/docmodel"
	"github.com/dgallion1/pdfedit/internal/editor"
	"github.com/dgallion1/pdfedit/internal/llm"
	"github.com/spf13/cobra"
)

var (
	editPrompt  string
	editOutput  string
	editVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pdfedit <file.pdf>",
	Short: "Edit a PDF from a natural-language prompt",
	Long: `pdfedit applies prompt-driven edits to a PDF document.

The prompt is parsed into replace, highlight, and heading-modification
requests. With OPENAI_API_KEY set the prompt is interpreted by the
configured model; without it a rule-based parser handles common phrasings.

Examples:
  pdfedit report.pdf -p "Change 'Introduction' to 'Overview'"
  pdfedit report.pdf -p "Highlight 'machine learning'" -o out.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runEdit,
}

func init() {
	rootCmd.Flags().StringVarP(&editPrompt, "prompt", "p", "", "edit instructions (required)")
	rootCmd.Flags().StringVarP(&editOutput, "output", "o", "", "output file path (default: <file>_edited.pdf)")
	rootCmd.Flags().BoolVarP(&editVerbose, "verbose", "v", false, "verbose logging")
	rootCmd.MarkFlagRequired("prompt")
}

func runEdit(cmd *cobra.Command, args []string) error {
	inputPath := args[0]
	if _, err := os.Stat(inputPath); err != nil {
		return fmt.Errorf("cannot read input file: %w", err)
	}

	outputPath := editOutput
	if outputPath == "" {
		ext := filepath.Ext(inputPath)
		outputPath = strings.TrimSuffix(inputPath, ext) + "_edited" + ext
	}

	level := slog.LevelWarn
	if editVerbose {
		level = slog.LevelInfo
	}
	log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))

	cfg := config.Load()

	pool, instance, err := docmodel.InitPdfium()
	if err != nil {
		return fmt.Errorf("initialize pdfium: %w", err)
	}
	defer pool.Close()

	doc, err := docmodel.OpenPdfium(instance, inputPath)
	if err != nil {
		return fmt.Errorf("open PDF: %w", err)
	}
	defer doc.Close()

	client := llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, log)
	defer client.Close()

	ecfg := editor.DefaultConfig()
	ecfg.DefaultFontSize = cfg.DefaultFontSize
	ecfg.HeadingSizeRatio = cfg.HeadingSizeRatio
	ed := editor.NewWithConfig(ecfg, editor.DefaultHumanizeConfig(), client, log)

	if err := ed.Process(cmd.Context(), doc, editPrompt, outputPath); err != nil {
		return fmt.Errorf("edit PDF: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outputPath)
	return nil
}

var textCmd = &cobra.Command{
	Use:   "text <file.pdf>",
	Short: "Print the plain text of a PDF",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		text, err := docmodel.PlainText(args[0], cfg.PDFFallbackPdftotext)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

func main() {
	rootCmd.AddCommand(textCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
