package cli

import (
	"github.com/spf13/cobra"

	"github.com/dgallion1/xapidoc/internal/apitree"
	"github.com/dgallion1/xapidoc/internal/extract"
)

func newSectionsCmd() *cobra.Command {
	var trailing int
	cmd := &cobra.Command{
		Use:   "sections FILE",
		Short: "Show the bookmarks and the page range of each chapter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			FormatBookmarks(w, doc.Bookmarks)
			sections := extract.DefaultSections(trailing)
			for _, kind := range apitree.Kinds {
				sec := sections[kind]
				pages, err := sec.Pages(doc)
				FormatSection(w, kind, pages, err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&trailing, "trailing", 2, "Pages dropped from the end of the status chapter")
	return cmd
}
