package cmd

import (
	"encoding/json"
	"strings"

	"github.com/habedi/q2launch/launcher"
	"github.com/habedi/q2launch/server"
	"github.com/spf13/cobra"
)

// requestCmd sends a command to a launcher started with `run --listen`.
func requestCmd(a *app) *cobra.Command {
	var (
		addr  string
		state bool
	)

	cmd := &cobra.Command{
		Use:   "request [command...]",
		Short: "Send a command to a running launcher",
		Long: "Send a command to a running launcher. Commands are:\n" +
			"  params <parameters>   use these command-line parameters\n" +
			"  run [<parameters>]    use these parameters and launch\n" +
			"  connect <host[:port]> connect to a server after launching",
		Example: "  q2launch request connect 192.168.1.20:27910\n  q2launch request --state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.cfg.Server.Listen
			}
			c := server.NewClient(addr)

			if state {
				s, err := c.State(cmd.Context())
				if err != nil {
					return err
				}
				out, err := json.MarshalIndent(s, "", "  ")
				if err != nil {
					return err
				}
				cmd.Println(string(out))
				return nil
			}

			line := strings.Join(args, " ")
			if _, err := launcher.ParseCommand("", line); err != nil {
				return err
			}
			id, err := c.Send(cmd.Context(), line)
			if err != nil {
				return err
			}
			cmd.Printf("Command accepted (id %s).\n", id)
			return nil
		},
	}

	cmd.Flags().StringVarP(&addr, "addr", "a", "", "Address of the running launcher (default from the config file)")
	cmd.Flags().BoolVar(&state, "state", false, "Show the launcher state instead of sending a command")
	return cmd
}
