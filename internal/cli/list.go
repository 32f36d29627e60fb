package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/userstore/internal/user"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Page     int
	PageSize int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every user's records, one page at a time",
		Long: `List the records of every user in principal order.

Each item is the full record list of one user. Pages start at 1; a page
past the end is empty and still reports the total number of users.

Example:
  userstore list --identity ./me.pem --page 2 --page-size 20`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().IntVar(&opts.Page, "page", 1, "page number, starting at 1")
	cmd.Flags().IntVar(&opts.PageSize, "page-size", 10, "users per page")

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	params := user.PaginationParams{Page: opts.Page, PageSize: opts.PageSize}
	resp, err := sess.svc.ListAllUsers(cmd.Context(), sess.caller, params)
	if err != nil {
		return classify("list all users", err)
	}
	return sess.formatter.Success(PageResult{
		PaginationResponse: resp,
		Page:               opts.Page,
		PageSize:           opts.PageSize,
	})
}
