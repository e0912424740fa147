// Package console is the evep command line: the admin pages rendered as
// terminal commands over the REST client.
package console

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/TELY01-DEV/evep-admin/client"
	"github.com/TELY01-DEV/evep-admin/config"
	"github.com/TELY01-DEV/evep-admin/logger"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format     string // "text" | "json"
	ConfigPath string
	Token      string
	Verbose    bool

	api *client.Client
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the evep command tree.
func NewRootCommand() *cobra.Command {
	cmd, _ := newRoot()
	return cmd
}

func newRoot() (*cobra.Command, *RootOptions) {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "evep",
		Short:         "EVEP admin console",
		Long:          "Manage patients, schools, screenings and master data of the EVEP vision screening programme.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return usageError(fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			cfg, err := config.LoadConsole(opts.ConfigPath)
			if err != nil {
				return WrapExitError(ExitUsage, "config", err)
			}
			log := zap.NewNop()
			if opts.Verbose {
				if log, err = logger.New(true, "debug"); err != nil {
					return err
				}
			}
			opts.api = client.New(cfg, client.WithLogger(log))
			return nil
		},
	}
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error { return usageError(err) })

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "console.yaml", "console config file")
	cmd.PersistentFlags().StringVar(&opts.Token, "token", os.Getenv("EVEP_TOKEN"), "bearer token (default $EVEP_TOKEN)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log every API call to stderr")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewGeoCommand(opts))
	for _, c := range resourceCommands(opts) {
		cmd.AddCommand(c)
	}
	return cmd, opts
}

// Execute runs the console with args and returns the process exit code.
// Failures are rendered on stdout in the selected format.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cmd, opts := newRoot()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitSuccess
	}
	f := &OutputFormatter{Format: opts.Format, Writer: stdout}
	if !isValidFormat(f.Format) {
		f.Format = "text"
	}
	code, msg := describe(err)
	_ = f.Error(code, msg)
	return GetExitCode(err)
}

// session puts the --token session on the command context.
func (o *RootOptions) session(cmd *cobra.Command) context.Context {
	return client.WithSession(cmd.Context(), client.Session{Token: o.Token})
}

func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{Format: o.Format, Writer: cmd.OutOrStdout()}
}

func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
