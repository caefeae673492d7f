package cmd

import (
	"strings"

	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/prefs"
	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// prefsCmd manages the launcher preferences shared with the setup dialog.
func prefsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show and change launcher preferences",
		Long: "Show and change launcher preferences. Names are matched case-insensitively and may omit\n" +
			"the \"Quake II \" prefix, e.g. `q2launch prefs set \"use mp3\" yes`.",
	}

	cmd.AddCommand(
		prefsListCmd(a),
		prefsGetCmd(a),
		prefsSetCmd(a),
		prefsResetCmd(a),
	)
	return cmd
}

func prefsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show all preferences",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.prefs()
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Type", "Value", "Default"})
			table.SetAlignment(tablewriter.ALIGN_LEFT)
			table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
			table.SetAutoWrapText(false)
			table.SetRowLine(false)

			for _, e := range store.All(cmd.Context()) {
				def := ""
				if e.IsDefault {
					def = "yes"
				}
				table.Append([]string{e.Name, e.Kind.String(), e.Value, def})
			}
			table.Render()
			return nil
		},
	}
}

func prefsGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <name>",
		Short: "Show one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.prefs()
			if err != nil {
				return err
			}
			name, err := resolvePreference(args[0])
			if err != nil {
				return err
			}
			v, err := store.Get(cmd.Context(), name)
			if err != nil {
				return err
			}
			cmd.Println(v)
			return nil
		},
	}
}

func prefsSetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "set <name> <value>",
		Short: "Change one preference",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.prefs()
			if err != nil {
				return err
			}
			name, err := resolvePreference(args[0])
			if err != nil {
				return err
			}
			if err := store.Set(cmd.Context(), name, args[1]); err != nil {
				return err
			}
			log.Info().Str("name", name).Msg("Preference updated")
			cmd.Printf("%s updated.\n", name)
			return nil
		},
	}
}

func prefsResetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "reset <name>",
		Short: "Restore the default value of one preference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.prefs()
			if err != nil {
				return err
			}
			name, err := resolvePreference(args[0])
			if err != nil {
				return err
			}
			if err := store.Reset(cmd.Context(), name); err != nil {
				return err
			}
			cmd.Printf("%s reset to its default.\n", name)
			return nil
		},
	}
}

// resolvePreference maps user input such as "use mp3" to a registered name.
func resolvePreference(input string) (string, error) {
	want := strings.ToLower(strings.Join(strings.Fields(input), " "))
	for _, def := range prefs.Definitions() {
		name := strings.ToLower(def.Name)
		if want == name || "quake ii "+want == name {
			return def.Name, nil
		}
	}
	return "", clierr.New(clierr.Validation, "unknown preference: "+input, prefs.ErrUnknownPreference)
}
