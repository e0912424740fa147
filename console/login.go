package console

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
)

func NewLoginCommand(opts *RootOptions) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and print a bearer token",
		Long: `Sign in with a console account. The token is printed, not stored:
export it as EVEP_TOKEN or pass it with --token.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("EVEP_PASSWORD")
			}
			if username == "" || password == "" {
				return usageError(errors.New("--username and --password (or $EVEP_PASSWORD) are required"))
			}
			s, err := opts.api.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			return opts.formatter(cmd).Success(s, func(w io.Writer) error {
				_, err := fmt.Fprintf(w, "logged in as %s (%s), token valid until %s\nexport EVEP_TOKEN=%s\n",
					s.Username, s.Role, s.ExpiresAt.Local().Format("2006-01-02 15:04"), s.Token)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "account name")
	cmd.Flags().StringVarP(&password, "password", "p", "", "password (default $EVEP_PASSWORD)")
	return cmd
}
