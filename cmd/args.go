package cmd

import (
	"github.com/habedi/q2launch/launcher"
	"github.com/habedi/q2launch/media"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/pkg/validation"
	"github.com/habedi/q2launch/prefs"
	"github.com/spf13/cobra"
)

// argsCmd prints the engine command line the saved settings would produce.
func argsCmd(a *app) *cobra.Command {
	var (
		mod    string
		params string
		tokens bool
	)

	cmd := &cobra.Command{
		Use:   "args",
		Short: "Show the command line Quake II would be started with",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.prefs()
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if mod != "" {
				if err := validation.ValidateModName(mod); err != nil {
					return clierr.New(clierr.Validation, err.Error(), err)
				}
			}

			req := launcher.LaunchRequest{
				Executable: a.cfg.Engine.Path,
				Root:       store.String(ctx, prefs.BasePath),
				ModFolder:  mod,
				MediaDir:   media.MediaDir(a.fs, a.cfg.Media.CDPath),
				UseMP3:     store.Bool(ctx, prefs.UseMP3),
				MP3Folder:  store.String(ctx, prefs.MP3Path),
			}
			switch {
			case cmd.Flags().Changed("params"):
				req.Parameters = params
			case store.Bool(ctx, prefs.UseParameters):
				req.Parameters = store.String(ctx, prefs.Parameters)
			}

			cl := req.CommandLine()
			if tokens {
				for _, t := range cl.Tokens() {
					cmd.Println(t)
				}
			} else {
				cmd.Println(cl.String())
			}
			return cl.Validate()
		},
	}

	cmd.Flags().StringVarP(&mod, "mod", "m", "", "Game folder to load instead of baseq2")
	cmd.Flags().StringVarP(&params, "params", "p", "", "Parameters to use instead of the saved ones")
	cmd.Flags().BoolVarP(&tokens, "tokens", "t", false, "Print one argument per line")
	return cmd
}
