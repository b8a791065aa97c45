package app

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/samvad-hq/coursegraph-client/pkg/token"
)

var exampleUsage = strings.TrimSpace(`
  coursegraph token login 12 0f3c9a1b
  coursegraph get /courses
  coursegraph post /users '{"name":"x"}'
  coursegraph put /users/12 @user.json
  coursegraph run ./configs/smoke.yaml
`)

// NewRootCommand builds the coursegraph command tree on top of a.
func NewRootCommand(a *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "coursegraph",
		Short:         "Call the Course Graph backend with the locally stored token",
		Example:       exampleUsage,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newBodylessCommand(a, http.MethodGet),
		newBodylessCommand(a, http.MethodDelete),
		newBodylessCommand(a, http.MethodHead),
		newBodyCommand(a, http.MethodPost),
		newBodyCommand(a, http.MethodPut),
		newBodyCommand(a, http.MethodPatch),
		newRunCommand(a),
		newTokenCommand(a),
	)
	return root
}

func newBodylessCommand(a *App, method string) *cobra.Command {
	return &cobra.Command{
		Use:   strings.ToLower(method) + " <path>",
		Short: fmt.Sprintf("Send a %s request", method),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.Call(cmd.Context(), method, args[0], nil)
		},
	}
}

func newBodyCommand(a *App, method string) *cobra.Command {
	var data string
	cmd := &cobra.Command{
		Use:   strings.ToLower(method) + " <path> [json-body]",
		Short: fmt.Sprintf("Send a %s request with a JSON body", method),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			arg := data
			if len(args) == 2 {
				if arg != "" {
					return fmt.Errorf("body given both as argument and --data")
				}
				arg = args[1]
			}
			body, err := parseBody(arg)
			if err != nil {
				return err
			}
			return a.Call(cmd.Context(), method, args[0], body)
		},
	}
	cmd.Flags().StringVarP(&data, "data", "d", "", "JSON body, or @file to read it from a file")
	return cmd
}

func newRunCommand(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "run <plan-file>",
		Short: "Execute every request of a YAML/JSON plan in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.RunPlan(cmd.Context(), args[0])
		},
	}
}

func newTokenCommand(a *App) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Manage the stored Authorization token",
	}

	tokenCmd.AddCommand(
		&cobra.Command{
			Use:   "set <value>",
			Short: "Store a complete Authorization value as-is",
			Args:  cobra.ExactArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				return a.SetToken(args[0])
			},
		},
		&cobra.Command{
			Use:   "login <user-id> <token>",
			Short: "Store the <user-id>_<token> value issued by the backend",
			Args:  cobra.ExactArgs(2),
			RunE: func(_ *cobra.Command, args []string) error {
				id, err := strconv.ParseInt(args[0], 10, 64)
				if err != nil {
					return fmt.Errorf("parse user id: %w", err)
				}
				return a.Login(token.Entry{UserID: id, Token: args[1]})
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the stored token",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return a.ShowToken()
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Remove the stored token",
			Args:  cobra.NoArgs,
			RunE: func(_ *cobra.Command, _ []string) error {
				return a.ClearToken()
			},
		},
	)
	return tokenCmd
}
