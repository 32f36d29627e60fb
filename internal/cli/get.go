package cli

import (
	"github.com/spf13/cobra"
)

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Show the caller's user records",
		Long: `Show every user record stored under the caller's principal.

Example:
  userstore get --identity ./me.pem
  userstore get --caller <principal> --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, cmd)
		},
	}
}

func runGet(opts *RootOptions, cmd *cobra.Command) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	records, err := sess.svc.GetUserData(cmd.Context(), sess.caller)
	if err != nil {
		return classify("get user data", err)
	}
	return sess.formatter.Success(RecordList(records))
}
