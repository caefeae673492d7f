package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/habedi/q2launch/config"
	"github.com/habedi/q2launch/db"
	"github.com/habedi/q2launch/pkg/clierr"
	"github.com/habedi/q2launch/prefs"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// app carries what every subcommand needs. The database is opened on first use.
type app struct {
	fs      afero.Fs
	cfgPath string
	cfg     config.Config
	store   *prefs.Store
}

// Execute runs the CLI and exits the process with a status derived from the error type.
// It is the only place that terminates the process on failure.
func Execute() {
	if code := execute(createRootCmd(), os.Args[1:]); code != 0 {
		os.Exit(code)
	}
}

// execute runs root with argv and reports any failure, including panics, on root's
// error stream. It returns the process exit status.
func execute(root *cobra.Command, argv []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			code = report(root.ErrOrStderr(), clierr.FromPanic(r))
		}
	}()
	root.SetArgs(argv)
	if err := root.Execute(); err != nil {
		return report(root.ErrOrStderr(), err)
	}
	return 0
}

// report prints err the way its type demands and returns the exit status.
func report(w io.Writer, err error) int {
	var lerr *clierr.Error
	if !errors.As(err, &lerr) {
		fmt.Fprintln(w, "Error:", err)
		return 1
	}
	if lerr.Type.Fatal() {
		log.Error().Err(err).Str("type", string(lerr.Type)).Msg("Fatal error")
		fmt.Fprintln(w, "An exception has occurred:", lerr.Error())
	} else {
		log.Warn().Err(err).Str("type", string(lerr.Type)).Msg("Command failed")
		fmt.Fprintln(w, "Error:", lerr.Error())
	}
	return lerr.Type.ExitCode()
}

func createRootCmd() *cobra.Command {
	a := &app{fs: afero.NewOsFs(), cfg: config.Default()}

	rootCmd := &cobra.Command{
		Use:           "q2launch",
		Short:         "A launcher for Quake II",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			a.loadConfig(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return closeDatabase()
		},
	}
	rootCmd.PersistentFlags().StringVarP(&a.cfgPath, "config", "c", "", "Path to the config file (default $"+config.EnvPath+" or the XDG config directory)")
	rootCmd.PersistentFlags().BoolP("help", "h", false, "Show help for a command")

	rootCmd.AddCommand(
		runCmd(a),
		scanCmd(a),
		argsCmd(a),
		prefsCmd(a),
		requestCmd(a),
		mp3Cmd(a),
		configCmd(a),
		guiCmd(a),
		versionCmd(),
	)

	rootCmd.CompletionOptions.HiddenDefaultCmd = true
	rootCmd.SetHelpCommand(&cobra.Command{
		Use:    "no-help",
		Hidden: true,
	})

	return rootCmd
}

// loadConfig reads the config file. A broken file is reported and the defaults are used.
func (a *app) loadConfig(cmd *cobra.Command) {
	path := a.cfgPath
	if path == "" {
		path = config.Path()
	}
	a.cfgPath = path
	cfg, err := config.Load(a.fs, path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("Using default configuration")
		cmd.PrintErrln("Warning:", err, "- using defaults")
	}
	a.cfg = cfg
}

// prefs opens the preference database on first use.
func (a *app) prefs() (*prefs.Store, error) {
	if a.store != nil {
		return a.store, nil
	}
	if err := initializeDatabase(); err != nil {
		return nil, err
	}
	a.store = prefs.NewStore(db.NewPreferenceRepository(db.GetDB()))
	return a.store, nil
}

func initializeDatabase() error {
	if err := db.InitDB(); err != nil {
		log.Error().Err(err).Msg("Failed to initialize database")
		return clierr.New(clierr.Configuration, "failed to open the preference database", err)
	}
	return nil
}

func closeDatabase() error {
	if err := db.CloseDB(); err != nil {
		log.Error().Err(err).Msg("Failed to close the database.")
		return err
	}
	db.Db = nil
	return nil
}
