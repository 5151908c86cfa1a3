package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/xapidoc/internal/extract"
	"github.com/dgallion1/xapidoc/internal/report"
)

type extractOptions struct {
	layoutOptions
	out     string
	format  string
	title   string
	noCheck bool
}

func newExtractCmd(root *rootOptions) *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract FILE",
		Short: "Extract the API model from a guide",
		Long: `Extract parses the configuration, command and status chapters of FILE and
writes the model as JSON, or as a Markdown, HTML, DOCX or XLSX report. The
format defaults to the extension of --out, then to JSON.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, root, opts, args[0])
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: json, md, html, docx, xlsx")
	cmd.Flags().StringVar(&opts.title, "title", "", "Override the document title")
	cmd.Flags().BoolVar(&opts.noCheck, "no-check", false, "Do not fail on validation errors")
	return cmd
}

func (o *extractOptions) outputFormat() (report.Format, error) {
	switch {
	case o.format != "":
		return report.ParseFormat(o.format)
	case filepath.Ext(o.out) != "":
		return report.ParseFormat(filepath.Ext(o.out))
	}
	return report.FormatJSON, nil
}

func runExtract(cmd *cobra.Command, root *rootOptions, opts *extractOptions, path string) error {
	stderr := cmd.ErrOrStderr()
	format, err := opts.outputFormat()
	if err != nil {
		return err
	}
	ex, err := opts.extractor(root.logger(stderr))
	if err != nil {
		return err
	}
	doc, err := loadDocument(path)
	if err != nil {
		return err
	}
	FormatColourWarning(stderr, doc)
	if opts.title != "" {
		doc.Title = opts.title
	}

	api, rep, err := ex.Run(cmd.Context(), doc)
	if err != nil {
		FormatParseError(stderr, err)
		return err
	}
	issues := extract.Validate(api)

	w := cmd.OutOrStdout()
	if opts.out != "" {
		f, err := os.Create(opts.out)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if err := report.Render(w, format, report.Input{API: api, Issues: issues}); err != nil {
		return fmt.Errorf("write %s: %w", format, err)
	}

	FormatSummary(stderr, doc, rep, issues)
	if extract.HasErrors(issues) && !opts.noCheck {
		return fmt.Errorf("model has validation errors")
	}
	return nil
}
