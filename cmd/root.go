package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	log "github.com/harlequix/secded/log"
	"github.com/harlequix/secded/secded"
	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var logger *log.Logger

func init() {
	logger = log.NewLogger("CLI")
}

var (
	cfgFile    string
	profileDir string
	profiler   interface{ Stop() }
	current    secded.Config
)

var rootCmd = &cobra.Command{
	Use:   "secded",
	Short: "Hamming SECDED encoder and decoder",
	Long: `secded protects data with an extended Hamming code. Every block of
--buffer-size bytes becomes one frame that survives any single flipped bit
and reveals any two.

Encode and decode files or pipes, flip bits to see the correction at work,
or push frames over a noisy QUIC or websocket link.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	flags.CountP("verbose", "v", "increase output verbosity (can be used multiple times)")
	flags.IntP("buffer-size", "b", 1, "block size in bytes used for encoding/decoding")
	flags.Int("workers", 4, "number of blocks coded in parallel")
	flags.String("log-file", "", "mirror logs as JSON into <path>.trace, .info and .warn")
	flags.String("backend", "native", "link transport for send and receive: native (QUIC) or websocket")
	flags.Bool("abort", false, "stop decoding at the first double error")
	flags.StringVar(&profileDir, "profile", "", "write a CPU profile into this directory")

	viper.BindPFlag("Verbosity", flags.Lookup("verbose"))
	viper.BindPFlag("BlockSize", flags.Lookup("buffer-size"))
	viper.BindPFlag("Workers", flags.Lookup("workers"))
	viper.BindPFlag("LogFile", flags.Lookup("log-file"))
	viper.BindPFlag("Backend", flags.Lookup("backend"))
	viper.BindPFlag("AbortOnDoubleError", flags.Lookup("abort"))
}

func setup(cmd *cobra.Command, args []string) error {
	if err := secded.SetConfig(cfgFile); err != nil {
		return err
	}
	config, err := secded.LoadConfig()
	if err != nil {
		return err
	}
	log.SetVerbosity(config.Level())
	if config.LogFile != "" {
		log.AddTracer(config.LogFile)
	}
	if profileDir != "" && profiler == nil {
		profiler = profile.Start(profile.CPUProfile, profile.ProfilePath(profileDir), profile.NoShutdownHook)
	}
	current = config
	logger.WithField("command", cmd.Name()).WithField("config", fmt.Sprintf("%+v", config)).Debug("configured")
	return nil
}

// exitError carries a process exit status through cobra.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the command line and returns the process exit status:
// 0 on success, 2 when decoded data could not be trusted, 1 otherwise.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := rootCmd.ExecuteContext(ctx)
	if profiler != nil {
		profiler.Stop()
	}
	return exitCode(err, os.Stderr)
}

func exitCode(err error, stderr io.Writer) int {
	if err == nil {
		return 0
	}
	fmt.Fprintln(stderr, "Error:", err)
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}
