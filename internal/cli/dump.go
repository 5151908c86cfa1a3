package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/dgallion1/xapidoc/internal/layout"
)

func newDumpCmd(root *rootOptions) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "dump FILE",
		Short: "Write the styled words of a guide as a JSON word dump",
		Long: `Dump loads FILE and writes its pages, words, glyphs and bookmarks in the
word dump format accepted by every other command and by the HTTP API.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(args[0])
			if err != nil {
				return err
			}
			root.logger(cmd.ErrOrStderr()).Info("document loaded",
				"pages", len(doc.Pages), "words", doc.WordCount(), "bookmarks", len(doc.Bookmarks))

			w := cmd.OutOrStdout()
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return layout.WriteDump(w, doc)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default: stdout)")
	return cmd
}
