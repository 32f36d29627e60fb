package cli

import (
	"github.com/spf13/cobra"
)

// NewSetUsernameCommand creates the set-username command.
func NewSetUsernameCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-username <name>",
		Short: "Rename every record of the caller",
		Long: `Set the name field on every record stored under the caller's principal.

Reports "User not found." when the caller has no records.

Example:
  userstore set-username --identity ./me.pem "Alice Smith"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSetUsername(rootOpts, args[0], cmd)
		},
	}
}

func runSetUsername(opts *RootOptions, name string, cmd *cobra.Command) error {
	sess, err := openSession(opts, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	status, err := sess.svc.SetUsername(cmd.Context(), sess.caller, name)
	if err != nil {
		return classify("set username", err)
	}
	return sess.formatter.Success(StatusResult{Message: status})
}
