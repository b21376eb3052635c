package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"l10n-scanner/internal/config"
	"l10n-scanner/internal/localization"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configFile string
	verbose    bool
}

// Execute runs the CLI application.
func Execute() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := newRootCmd(afero.NewOsFs()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:           "l10n-scanner",
		Short:         "Extract translatable strings from PHP and JavaScript code",
		Long:          "Scans PHP and JavaScript sources for translation function calls, keeps a snapshot of every string found and manages per-locale translation files.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			zerolog.SetGlobalLevel(zerolog.InfoLevel)
			if opts.verbose {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.configFile, "config", "", "Config file (default ./l10n.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging")

	load := func() (*localization.Context, error) {
		cfg, err := config.Load(fs, opts.configFile)
		if err != nil {
			return nil, err
		}
		return localization.New(fs, cfg)
	}

	rootCmd.AddCommand(
		scanCmd(load),
		statusCmd(load),
		warningsCmd(load),
		stringsCmd(load),
		languagesCmd(fs),
		parseCmd(fs),
		parseCodeCmd(fs),
		translateCmd(load),
		setTranslationCmd(load),
		clearTranslationCmd(load),
		exportDBCmd(load),
		exportGraphCmd(load),
		whereCmd(load),
	)
	return rootCmd
}

type loader func() (*localization.Context, error)

// setupContext creates a cancellable context with signal handling.
func setupContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Warn().Msg("Received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}
