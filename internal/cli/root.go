package cli

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Config   string // path to YAML config file
	Engine   string // overrides config engine
	Path     string // overrides config path
	Caller   string // principal text of the caller
	Identity string // PEM key file the caller principal is derived from

	// TraceGenerator allows overriding trace ID generation (for testing).
	// If nil, defaults to UUIDv7.
	TraceGenerator func() string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the userstore CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "userstore",
		Short: "Persistent user profile store",
		Long:  "Store, list and rename user profile records keyed by caller principal.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	flags.StringVar(&opts.Config, "config", "", "path to YAML config file")
	flags.StringVar(&opts.Engine, "engine", "", "storage engine (sqlite|pebble|memory), overrides config")
	flags.StringVar(&opts.Path, "path", "", "storage path, overrides config")
	flags.StringVar(&opts.Caller, "caller", "", "caller principal (textual form)")
	flags.StringVar(&opts.Identity, "identity", "", "PEM private key file identifying the caller")

	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewAddCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewSetUsernameCommand(opts))
	cmd.AddCommand(NewIdentityCommand(opts))

	return cmd
}

func (o *RootOptions) traceID() string {
	if o.TraceGenerator != nil {
		return o.TraceGenerator()
	}
	return uuid.Must(uuid.NewV7()).String()
}
