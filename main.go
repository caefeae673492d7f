package main

import (
	"io"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/habedi/q2launch/cmd"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

const debugEnv = "DEBUG_Q2LAUNCH"

// main sets up logging from DEBUG_Q2LAUNCH, exits on an interrupt and runs the CLI.
func main() {
	if configureLogLevelFromEnv() {
		log.Logger = zerolog.New(logWriter(os.Stderr, logFilePath())).With().Timestamp().Logger()
	}

	stopChan := setupInterruptListener()
	go handleInterrupt(stopChan, func(msg string) { log.Error().Msg(msg) }, os.Exit)

	cmd.Execute()
}

// configureLogLevelFromEnv enables debug logging when DEBUG_Q2LAUNCH is set to anything
// but "", "0" or "false"; otherwise logging is disabled. It reports whether debugging is on.
func configureLogLevelFromEnv() bool {
	switch os.Getenv(debugEnv) {
	case "", "0", "false":
		zerolog.SetGlobalLevel(zerolog.Disabled)
		return false
	default:
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return true
	}
}

func logFilePath() string {
	return filepath.Join(xdg.StateHome, "q2launch", "q2launch.log")
}

// logWriter sends log lines to the console and to a size-rotated file.
func logWriter(console io.Writer, path string) io.Writer {
	return zerolog.MultiLevelWriter(
		zerolog.ConsoleWriter{Out: console},
		&lumberjack.Logger{
			Filename:   path,
			MaxSize:    5, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		},
	)
}

func setupInterruptListener() chan os.Signal {
	stopChan := make(chan os.Signal, 1)
	signal.Notify(stopChan, os.Interrupt)
	return stopChan
}

// handleInterrupt waits for an interrupt signal, logs it and exits with status 1.
func handleInterrupt(stopChan chan os.Signal, fatalLog func(string), exit func(int)) {
	<-stopChan
	fatalLog("Interrupt signal received. Exiting...")
	exit(1)
}
