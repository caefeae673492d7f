package cmd

import (
	"github.com/habedi/q2launch/media"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/prefs"
	"github.com/spf13/cobra"
)

func mp3Cmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mp3",
		Short: "Manage the MP3 soundtrack",
	}
	cmd.AddCommand(mp3CheckCmd(a))
	return cmd
}

// mp3CheckCmd makes sure a soundtrack folder holds tracks the engine can play.
func mp3CheckCmd(a *app) *cobra.Command {
	var (
		workers int
		save    bool
	)

	cmd := &cobra.Command{
		Use:   "check [folder]",
		Short: "Check that a folder holds playable MP3 tracks",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var folder string
			if len(args) == 1 {
				folder = args[0]
			} else {
				store, err := a.prefs()
				if err != nil {
					return err
				}
				folder = store.String(ctx, prefs.MP3Path)
			}
			if folder == "" {
				return clierr.Newf(clierr.Validation, "no MP3 folder given or saved")
			}
			if !cmd.Flags().Changed("threads") {
				workers = a.cfg.Media.MP3Workers
			}

			n, err := media.CheckMP3Folder(ctx, a.fs, folder, workers)
			if err != nil {
				return clierr.New(clierr.Validation, err.Error(), err)
			}
			cmd.Printf("%d playable tracks in %s\n", n, folder)

			if save {
				store, err := a.prefs()
				if err != nil {
					return err
				}
				if err := store.SetString(ctx, prefs.MP3Path, folder); err != nil {
					return err
				}
				if err := store.SetBool(ctx, prefs.UseMP3, true); err != nil {
					return err
				}
				cmd.Println("MP3 soundtrack enabled.")
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&workers, "threads", "t", 4, "Number of tracks to check at once")
	cmd.Flags().BoolVarP(&save, "save", "s", false, "Use this folder for the soundtrack")
	return cmd
}
