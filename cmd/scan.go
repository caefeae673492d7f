package cmd

import (
	"fmt"
	"os"

	"github.com/habedi/q2launch/media"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/prefs"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

// scanCmd looks for game data without launching anything.
func scanCmd(a *app) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "scan [folder...]",
		Short: "Look for Quake II game data",
		Long:  "Look for Quake II game data in the given folders, or in the usual install locations when none are given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			roots := args
			if len(roots) == 0 {
				o := a.candidateOptions()
				if store, err := a.prefs(); err == nil {
					o.BasePath = store.String(cmd.Context(), prefs.BasePath)
				}
				roots = media.Candidates(a.fs, o)
			}
			log.Info().Strs("roots", roots).Msg("Scanning for game data")

			var bar *progressbar.ProgressBar
			if isInteractive(os.Stderr) {
				bar = progressbar.NewOptions(len(roots),
					progressbar.OptionSetWriter(cmd.ErrOrStderr()),
					progressbar.OptionSetDescription("Scanning..."),
					progressbar.OptionSetWidth(20),
					progressbar.OptionShowCount(),
					progressbar.OptionClearOnFinish(),
				)
			}

			scanner := media.NewScanner(a.fs, a.cfg.Media.Targets)
			res := scanner.Scan(cmd.Context(), roots, func(i int, root string) {
				if bar != nil {
					bar.Describe("Scanning " + root)
					_ = bar.Set(i)
				}
			})
			if bar != nil {
				_ = bar.Finish()
			}

			if res.Status != media.Found {
				return clierr.Newf(clierr.Validation,
					"no Quake II game data found in %d locations", res.Checked)
			}
			cmd.Printf("Found Quake II game data in %s (%s)\n", res.Root, res.Target)

			if save {
				store, err := a.prefs()
				if err != nil {
					return err
				}
				if err := store.SetString(cmd.Context(), prefs.BasePath, res.Root); err != nil {
					return fmt.Errorf("failed to save install folder: %w", err)
				}
				cmd.Println("Install folder saved.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&save, "save", "s", false, "Remember the folder that was found")
	return cmd
}
