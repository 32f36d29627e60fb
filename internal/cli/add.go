package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/userstore/internal/user"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	Name    string
	Email   string
	Picture string
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a user record for the caller",
		Long: `Append a user record to the caller's records, creating them if absent.

Example:
  userstore add --identity ./me.pem --name Alice --email alice@example.com
  userstore add --caller <principal> --name Bob --email bob@example.com --picture ./bob.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Name, "name", "", "user name (required)")
	cmd.Flags().StringVar(&opts.Email, "email", "", "email address")
	cmd.Flags().StringVar(&opts.Picture, "picture", "", "path to a profile picture file")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	rec := user.Record{Name: opts.Name, Email: opts.Email}
	if opts.Picture != "" {
		data, err := os.ReadFile(opts.Picture)
		if err != nil {
			return WrapExitError(ExitCommandError, "failed to read picture", err)
		}
		rec.ProfilePicture = data
	}

	sess, err := openSession(opts.RootOptions, cmd)
	if err != nil {
		return err
	}
	defer sess.Close()

	status, err := sess.svc.AddUserData(cmd.Context(), sess.caller, rec)
	if err != nil {
		return classify("add user data", err)
	}
	return sess.formatter.Success(StatusResult{Message: status})
}
