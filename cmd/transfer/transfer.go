package transfer

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/gonz247/commentgenerator/config"
	"github.com/gonz247/commentgenerator/internal/app"
	. "github.com/gonz247/commentgenerator/internal/models"
	"github.com/gonz247/commentgenerator/internal/utils"

	"github.com/spf13/cobra"
)

const targetAssessments = "assessments"

type options struct {
	target string
	format string
}

func (o *options) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.target, "target", "t", targetAssessments, "What to transfer: assessments, products or events")
	cmd.Flags().StringVarP(&o.format, "format", "f", "csv", "File format: csv or json")
}

// ExportCommand writes assessments or a vocabulary to a file or stdout.
func ExportCommand(ctx *config.Context) *cobra.Command {
	var opts options
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export assessments or vocabulary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := utils.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" && output != "-" {
				file, err := os.Create(output)
				if err != nil {
					return err
				}
				defer file.Close()
				w = file
			}

			return withApp(ctx.Config, func(application *app.App) error {
				return export(cmd.Context(), application, w, opts.target, format)
			})
		},
	}

	opts.bind(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file, stdout when empty")
	return cmd
}

// ImportCommand reads a file and stores every well formed record.
func ImportCommand(ctx *config.Context) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Import assessments or vocabulary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := utils.ParseFormat(opts.format)
			if err != nil {
				return err
			}

			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			return withApp(ctx.Config, func(application *app.App) error {
				result, err := importFile(cmd.Context(), application, file, opts.target, format)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d, skipped %d\n", result.Imported, result.Skipped)
				return nil
			})
		},
	}

	opts.bind(cmd)
	return cmd
}

func export(ctx context.Context, application *app.App, w io.Writer, target string, format utils.Format) error {
	if target == targetAssessments {
		return application.AssessmentController.Export(ctx, w, format)
	}

	kind, err := ParseVocabularyKind(target)
	if err != nil {
		return err
	}
	return application.VocabularyController.Export(ctx, w, kind, format)
}

func importFile(ctx context.Context, application *app.App, r io.Reader, target string, format utils.Format) (ImportResult, error) {
	if target == targetAssessments {
		return application.AssessmentController.Import(ctx, r, format)
	}

	kind, err := ParseVocabularyKind(target)
	if err != nil {
		return ImportResult{}, err
	}
	return application.VocabularyController.Import(ctx, r, kind, format)
}

func withApp(config config.Config, fn func(application *app.App) error) error {
	application, err := app.NewWithConfig(config)
	if err != nil {
		return err
	}
	defer application.Close()
	return fn(application)
}
