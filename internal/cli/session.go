package cli

import (
	"crypto"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/userstore/internal/codec"
	"github.com/roach88/userstore/internal/config"
	"github.com/roach88/userstore/internal/principal"
	"github.com/roach88/userstore/internal/service"
	"github.com/roach88/userstore/internal/stablemap"
	"github.com/roach88/userstore/internal/state"
)

// session is an open store plus the resolved caller for one command.
type session struct {
	svc       *service.Service
	caller    principal.Principal
	formatter *OutputFormatter
	engine    stablemap.Engine
	logger    *slog.Logger
}

func (s *session) Close() {
	if err := s.engine.Close(); err != nil {
		s.logger.Error("error closing engine", "error", err)
	}
}

// openSession loads configuration, opens the engine, and resolves the caller.
func openSession(opts *RootOptions, cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if opts.Engine != "" {
		cfg.Engine = opts.Engine
	}
	if opts.Path != "" {
		cfg.Path = opts.Path
	}
	if err := cfg.Validate(); err != nil {
		return nil, WrapExitError(ExitCommandError, "invalid storage flags", err)
	}

	formatter := newFormatter(opts, cmd)

	// Configure logging based on config and verbose flag
	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(formatter.GetErrWriter(), &slog.HandlerOptions{Level: level}))

	caller, err := resolveCaller(opts)
	if err != nil {
		return nil, err
	}

	formatter.VerboseLog("storage: %s engine at %s", cfg.Engine, cfg.Path)
	formatter.VerboseLog("caller: %s", caller)
	engine, err := stablemap.Open(cfg.Engine, cfg.Path, logger)
	if err != nil {
		return nil, WrapExitError(ExitFailure, "failed to open storage", err)
	}

	svc := service.New(state.NewHolder(state.New(engine)), service.WithLogger(logger))
	return &session{
		svc:       svc,
		caller:    caller,
		formatter: formatter,
		engine:    engine,
		logger:    logger,
	}, nil
}

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
		TraceID:   opts.traceID(),
	}
}

// resolveCaller picks the caller from --identity, then --caller.
// With neither flag the caller is anonymous.
func resolveCaller(opts *RootOptions) (principal.Principal, error) {
	switch {
	case opts.Identity != "" && opts.Caller != "":
		return principal.Principal{}, NewExitError(ExitCommandError, "--identity and --caller are mutually exclusive")
	case opts.Identity != "":
		p, err := principalFromKeyFile(opts.Identity)
		if err != nil {
			return principal.Principal{}, WrapExitError(ExitCommandError, "failed to load identity", err)
		}
		return p, nil
	case opts.Caller != "":
		p, err := principal.FromText(opts.Caller)
		if err != nil {
			return principal.Principal{}, WrapExitError(ExitCommandError, "invalid --caller", err)
		}
		return p, nil
	default:
		return principal.Anonymous, nil
	}
}

// principalFromKeyFile derives the self-authenticating principal of the
// public half of a PKCS#8 PEM private key.
func principalFromKeyFile(path string) (principal.Principal, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return principal.Principal{}, err
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return principal.Principal{}, errors.New("no PEM block found")
	}
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return principal.Principal{}, fmt.Errorf("parse private key: %w", err)
	}
	signer, ok := key.(crypto.Signer)
	if !ok {
		return principal.Principal{}, fmt.Errorf("unsupported key type %T", key)
	}
	der, err := x509.MarshalPKIXPublicKey(signer.Public())
	if err != nil {
		return principal.Principal{}, fmt.Errorf("marshal public key: %w", err)
	}
	return principal.SelfAuthenticating(der), nil
}

// classify maps service errors to exit codes.
func classify(op string, err error) error {
	switch {
	case errors.Is(err, service.ErrAnonymousCaller):
		return &ExitError{Code: ExitCommandError, ErrCode: ErrCodeAnonymous, Message: op, Err: err}
	case errors.Is(err, codec.ErrInvalidUTF8):
		return &ExitError{Code: ExitCommandError, ErrCode: ErrCodeText, Message: op, Err: err}
	case errors.Is(err, codec.ErrCorrupt):
		return &ExitError{Code: ExitFailure, ErrCode: ErrCodeCorrupt, Message: op, Err: err}
	default:
		return WrapExitError(ExitFailure, op, err)
	}
}
