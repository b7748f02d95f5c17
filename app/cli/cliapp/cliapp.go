// Package cliapp provides the cobra plumbing the three command line clients
// share: the root command, the config command and input parsing.
package cliapp

import (
	"context"
	"fmt"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/ardanlabs/erc20bank/business/sys/boot"
	"github.com/ardanlabs/erc20bank/business/sys/validate"
	"github.com/ardanlabs/erc20bank/foundation/console"
	"github.com/ardanlabs/erc20bank/foundation/logger"
	"github.com/ardanlabs/erc20bank/foundation/units"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// offline marks commands that run without a node connection.
const offline = "offline"

// Main runs the command tree the build function constructs and exits the
// process with status 1 when the command fails.
func Main(service string, build string, desc string, root func(sess *boot.Session) *cobra.Command) {
	cfg, err := boot.LoadConfig(build, desc)
	if err != nil {
		console.Failure(os.Stdout, "%s", err)
		os.Exit(1)
	}

	log, err := logger.New(service, cfg.LogLevel)
	if err != nil {
		console.Failure(os.Stdout, "%s", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(log, cfg, root); err != nil {
		boot.Report(os.Stdout, err)
		log.Errorw("command", "ERROR", err)
		log.Sync()
		os.Exit(1)
	}
}

func run(log *zap.SugaredLogger, cfg boot.Config, root func(sess *boot.Session) *cobra.Command) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess := boot.NewSession(log, cfg, os.Stdout)
	defer sess.Close()

	log.Infow("startup", "version", cfg.Build, "args", os.Args[1:])

	return root(sess).ExecuteContext(ctx)
}

// =============================================================================

// Root constructs a root command whose subcommands find the session
// connected, unless they are marked Offline.
func Root(sess *boot.Session, use string, short string) *cobra.Command {
	cmd := cobra.Command{
		Use:           use,
		Short:         short,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if _, exists := cmd.Annotations[offline]; exists || cmd.Name() == "help" {
				return nil
			}
			return sess.Connect(cmd.Context())
		},
	}

	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVar(&sess.PrivateKey, "private-key", "", "Private key to sign with, defaults to "+boot.EnvPrivateKey+".")
	cmd.AddCommand(configCmd(sess))

	return &cmd
}

// Offline marks the command as one that runs without a node connection.
func Offline(cmd *cobra.Command) *cobra.Command {
	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations[offline] = "true"
	return cmd
}

func configCmd(sess *boot.Session) *cobra.Command {
	cmd := cobra.Command{
		Use:   "config",
		Short: "Show the resolved configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := sess.Config.Display()
			if err != nil {
				return err
			}
			fmt.Fprintln(sess.Out, out)
			return nil
		},
	}

	return Offline(&cmd)
}

// =============================================================================

// Check validates the command input against its tags.
func Check(input any) error {
	return validate.Check(input)
}

// ParseID converts an id typed on the command line.
func ParseID(name string, s string) (uint64, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a valid id", name, s)
	}
	return id, nil
}

// ParseAmount converts a decimal amount typed on the command line into base
// units. An empty string is returned as nil.
func ParseAmount(name string, s string, decimals int32) (*big.Int, error) {
	if s == "" {
		return nil, nil
	}

	v, err := units.Parse(s, decimals)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return v, nil
}
