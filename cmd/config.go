package cmd

import (
	"github.com/habedi/q2launch/config"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func configCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}
	cmd.AddCommand(configPathCmd(a), configInitCmd(a))
	return cmd
}

func configPathCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show where the configuration file is read from",
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Println(a.cfgPath)
		},
	}
}

// configInitCmd writes a configuration file holding the defaults.
func configInitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a configuration file with the default settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			exists, err := afero.Exists(a.fs, a.cfgPath)
			if err != nil {
				return err
			}
			if exists && !force {
				return clierr.Newf(clierr.Configuration, "%s already exists; use --force to overwrite it", a.cfgPath)
			}
			if err := config.Write(a.fs, a.cfgPath, config.Default()); err != nil {
				return clierr.New(clierr.Configuration, err.Error(), err)
			}
			cmd.Printf("Configuration written to %s\n", a.cfgPath)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	return cmd
}
