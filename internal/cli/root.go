// Package cli implements the xapidoc command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dgallion1/xapidoc/internal/version"
)

type rootOptions struct {
	verbose bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "xapidoc",
		Short: "Extract the xAPI model from a RoomOS API reference guide",
		Long: `xapidoc reads an API reference guide (a PDF, or a JSON word dump produced
by "xapidoc dump" or an external glyph extractor) and recovers every
xConfiguration, xCommand and xStatus entry it documents from the typography
of the page.`,
		SilenceUsage: true,
	}
	cmd.Version = version.Version
	cmd.SetVersionTemplate(fmt.Sprintf("xapidoc %s\n", version.String()))
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log section timings and progress to stderr")

	cmd.AddCommand(
		newExtractCmd(opts),
		newStylesCmd(opts),
		newSectionsCmd(),
		newDumpCmd(opts),
	)
	return cmd
}

func (o *rootOptions) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
