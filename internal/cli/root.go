// Package cli implements leadctl, a terminal client for the leadbook API.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"winsbygroup.com/leadbook/internal/apiclient"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server string
	Format string // "text" | "json"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

func (o *RootOptions) client() *apiclient.Client {
	return apiclient.New(o.Server)
}

func defaultServer() string {
	if s := os.Getenv("LEADBOOK_SERVER"); s != "" {
		return s
	}
	return "http://localhost:5000"
}

// NewRootCommand creates the root command for leadctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "leadctl",
		Short: "leadctl - manage leadbook contacts",
		Long:  "A command line client for the leadbook contacts API.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Server, "server", defaultServer(), "leadbook server URL")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewImportCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))

	return cmd
}
