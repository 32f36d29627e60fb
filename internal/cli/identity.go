package cli

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

// IdentityResult describes a caller identity.
type IdentityResult struct {
	Principal string `json:"principal"`
	KeyFile   string `json:"key_file,omitempty"`
	Anonymous bool   `json:"anonymous"`
}

// RenderText implements TextRenderer.
func (r IdentityResult) RenderText(w io.Writer) {
	fmt.Fprintln(w, r.Principal)
	if r.KeyFile != "" {
		fmt.Fprintf(w, "key written to %s\n", r.KeyFile)
	}
}

// NewIdentityCommand creates the identity command group.
func NewIdentityCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "identity",
		Short: "Create and inspect caller identities",
	}
	cmd.AddCommand(newIdentityNewCommand(rootOpts))
	cmd.AddCommand(newIdentityShowCommand(rootOpts))
	return cmd
}

func newIdentityNewCommand(rootOpts *RootOptions) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate an Ed25519 key and print its principal",
		Long: `Generate an Ed25519 private key, write it as PKCS#8 PEM, and print the
self-authenticating principal derived from its public key.

Example:
  userstore identity new --out ./me.pem`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIdentityNew(rootOpts, out, cmd)
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "file to write the PEM private key to (required)")
	_ = cmd.MarkFlagRequired("out")

	return cmd
}

func runIdentityNew(opts *RootOptions, out string, cmd *cobra.Command) error {
	_, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to generate key", err)
	}
	der, err := x509.MarshalPKCS8PrivateKey(priv)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to encode key", err)
	}

	f, err := os.OpenFile(out, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create key file", err)
	}
	if err := pem.Encode(f, &pem.Block{Type: "PRIVATE KEY", Bytes: der}); err != nil {
		f.Close()
		return WrapExitError(ExitFailure, "failed to write key file", err)
	}
	if err := f.Close(); err != nil {
		return WrapExitError(ExitFailure, "failed to write key file", err)
	}

	p, err := principalFromKeyFile(out)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to derive principal", err)
	}

	return newFormatter(opts, cmd).Success(IdentityResult{Principal: p.String(), KeyFile: out})
}

func newIdentityShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the principal the other commands would call as",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			caller, err := resolveCaller(rootOpts)
			if err != nil {
				return err
			}
			return newFormatter(rootOpts, cmd).Success(IdentityResult{
				Principal: caller.String(),
				Anonymous: caller.IsAnonymous(),
			})
		},
	}
}
