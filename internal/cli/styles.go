package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dgallion1/xapidoc/internal/classify"
	"github.com/dgallion1/xapidoc/internal/layout"
)

type stylesOptions struct {
	layoutOptions
	page  int
	style string
}

func newStylesCmd(root *rootOptions) *cobra.Command {
	opts := &stylesOptions{}
	cmd := &cobra.Command{
		Use:   "styles FILE",
		Short: "Print the classified words of a page",
		Long: `Styles lists every word of one page in reading order with the character
style the rule table assigns it, and the typography that decided it. Use it
to tune a rule table against a new revision of the guide.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.classifier()
			if err != nil {
				return err
			}
			var filter *classify.Style
			if opts.style != "" {
				s, err := classify.ParseStyle(opts.style)
				if err != nil {
					return err
				}
				filter = &s
			}
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			FormatColourWarning(cmd.ErrOrStderr(), doc)
			page, ok := doc.Page(opts.page)
			if !ok {
				return fmt.Errorf("page %d not found (document has %d pages)", opts.page, len(doc.Pages))
			}

			cols := opts.columns()
			w := cmd.OutOrStdout()
			FormatPageHeader(w, page, cols)
			for pw := range cols.Words([]layout.Page{*page}) {
				style := c.Classify(pw.Word)
				if filter != nil && style != *filter {
					continue
				}
				FormatStyledWord(w, pw.Word, style, cols.IsLeft(page, pw.Word))
			}
			return nil
		},
	}
	opts.addFlags(cmd)
	cmd.Flags().IntVarP(&opts.page, "page", "p", 1, "Page number")
	cmd.Flags().StringVar(&opts.style, "style", "", "Only print words of this style")
	return cmd
}
