package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/xapidoc/internal/classify"
	"github.com/dgallion1/xapidoc/internal/extract"
	"github.com/dgallion1/xapidoc/internal/layout"
	"github.com/dgallion1/xapidoc/internal/parser"
)

func loadDocument(path string) (*layout.Document, error) {
	loader, err := layout.ForFile(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := loader.Load(f, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return doc, nil
}

// layoutOptions are the flags shared by commands that classify words or
// locate sections.
type layoutOptions struct {
	rules    string
	trailing int
	leftMM   float64
	rightMM  float64
}

func (o *layoutOptions) addFlags(cmd *cobra.Command) {
	def := layout.DefaultColumnLayout()
	cmd.Flags().StringVar(&o.rules, "rules", os.Getenv("XAPIDOC_STYLE_RULES"), "YAML style rule table (default: embedded)")
	cmd.Flags().IntVar(&o.trailing, "trailing", 2, "Pages dropped from the end of the status chapter")
	cmd.Flags().Float64Var(&o.leftMM, "left-margin", def.LeftMarginMM, "Left page margin in mm")
	cmd.Flags().Float64Var(&o.rightMM, "right-margin", def.RightMarginMM, "Right page margin in mm")
}

func (o *layoutOptions) classifier() (*classify.Classifier, error) {
	return classify.LoadOrDefault(o.rules)
}

func (o *layoutOptions) columns() layout.ColumnLayout {
	return layout.ColumnLayout{LeftMarginMM: o.leftMM, RightMarginMM: o.rightMM}
}

func (o *layoutOptions) extractor(log *slog.Logger) (*extract.Extractor, error) {
	if o.trailing < 0 {
		return nil, fmt.Errorf("--trailing must not be negative")
	}
	c, err := o.classifier()
	if err != nil {
		return nil, err
	}
	ex := extract.New(parser.New(c), log)
	ex.Sections = extract.DefaultSections(o.trailing)
	ex.Columns = o.columns()
	return ex, nil
}
