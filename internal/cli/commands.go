package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"winsbygroup.com/leadbook/internal/apiclient"
	"winsbygroup.com/leadbook/internal/contact"
	"winsbygroup.com/leadbook/internal/importer"
)

// NewListCommand creates the list command.
func NewListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all contacts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return relist(cmd, opts)
		},
	}
}

// NewAddCommand creates the add command.
func NewAddCommand(opts *RootOptions) *cobra.Command {
	var values contact.Contact
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a contact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := opts.client().Create(cmd.Context(), values)
			if err != nil {
				return err
			}
			printMessage(cmd.ErrOrStderr(), opts.Format, "User added successfully (id %d)", id)
			return relist(cmd, opts)
		},
	}
	bindFieldFlags(cmd.Flags(), &values)
	return cmd
}

// NewEditCommand creates the edit command. Fields without a flag keep their
// current values.
func NewEditCommand(opts *RootOptions) *cobra.Command {
	var values contact.Contact
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Update a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			current, err := find(ctx, opts.client(), id)
			if err != nil {
				return err
			}
			for _, f := range contact.Fields {
				if cmd.Flags().Changed(flagName(f)) {
					f.Set(current, f.Get(&values))
				}
			}
			if err := opts.client().Update(ctx, id, *current); err != nil {
				return err
			}
			printMessage(cmd.ErrOrStderr(), opts.Format, "User updated successfully")
			return relist(cmd, opts)
		},
	}
	bindFieldFlags(cmd.Flags(), &values)
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a contact",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := opts.client().Delete(cmd.Context(), id); err != nil {
				return err
			}
			printMessage(cmd.ErrOrStderr(), opts.Format, "User deleted successfully")
			return relist(cmd, opts)
		},
	}
}

// NewImportCommand creates the import command. Rows are parsed locally,
// previewed, and uploaded in one bulk request once confirmed.
func NewImportCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import contacts from an .xlsx or .csv file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			rows, err := importer.Parse(f, args[0])
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("no data to upload in %s", args[0])
			}

			if !yes {
				fmt.Fprintln(cmd.ErrOrStderr(), "Preview:")
				if err := printContacts(cmd.ErrOrStderr(), "text", rows); err != nil {
					return err
				}
				ok, err := confirm(cmd, fmt.Sprintf("Upload %d rows?", len(rows)))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.ErrOrStderr(), "Import cancelled")
					return nil
				}
			}

			n, err := opts.client().BulkCreate(cmd.Context(), rows)
			if err != nil {
				return err
			}
			printMessage(cmd.ErrOrStderr(), opts.Format, "Users imported successfully (%d rows)", n)
			return relist(cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "upload without the preview prompt")
	return cmd
}

// NewExportCommand creates the export command.
func NewExportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "export <file>",
		Short: "Download all contacts as an .xlsx workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Create(args[0])
			if err != nil {
				return err
			}
			if err := opts.client().Export(cmd.Context(), f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printMessage(cmd.ErrOrStderr(), opts.Format, "Exported to %s", args[0])
			return nil
		},
	}
}

// relist prints the full list after every command so the view always
// reflects the server.
func relist(cmd *cobra.Command, opts *RootOptions) error {
	contacts, err := opts.client().List(cmd.Context())
	if err != nil {
		return err
	}
	return printContacts(cmd.OutOrStdout(), opts.Format, contacts)
}

func find(ctx context.Context, c *apiclient.Client, id int64) (*contact.Contact, error) {
	all, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, &apiclient.APIError{Status: 404, Message: "User not found"}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

// flagName turns a column name into a flag, e.g. contact_name -> contact-name.
func flagName(f contact.Field) string {
	return strings.ReplaceAll(f.Column, "_", "-")
}

func bindFieldFlags(fs *pflag.FlagSet, c *contact.Contact) {
	for _, f := range contact.Fields {
		fs.StringVar(f.Ptr(c), flagName(f), "", f.Header)
	}
}

func confirm(cmd *cobra.Command, prompt string) (bool, error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "%s [y/N] ", prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return false, nil
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
