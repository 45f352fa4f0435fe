package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/xonecas/tilawa/internal/chat"
	"github.com/xonecas/tilawa/internal/config"
	"github.com/xonecas/tilawa/internal/constants"
	"github.com/xonecas/tilawa/internal/tui"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	configPath string
	debug      bool
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "tilawa",
	Short: "Terminal client for the Urdu Quran Q&A service",
	Long: `Tilawa is a terminal chat client for an Urdu Quran question-and-answer
backend. Ask questions, browse categories, search canned questions and read
daily facts without leaving the terminal.`,
	Example: `
# Start the chat
tilawa

# Ask once and print the answer
tilawa ask "قرآن میں کتنی سورتیں ہیں"

# Check answer accuracy against the backend
tilawa probe --cases cases.yaml`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initLogging(debug); err != nil {
			return fmt.Errorf("initialize logging: %w", err)
		}
		loaded, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded
		log.Debug().Interface("config", cfg).Msg("Configuration loaded")
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTUI(cmd.Context())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to config file")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debug logging")

	rootCmd.AddCommand(askCmd, factCmd, categoriesCmd, searchCmd, probeCmd, historyCmd, versionCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runTUI(ctx context.Context) error {
	log.Info().Str("version", Version).Str("backend", cfg.Server.BaseURL).Msg("Starting Tilawa")

	s := openStore(cfg.Store)
	if s != nil {
		defer s.Close()
	}

	client := newClient(cfg.Server)
	asker, err := newAsker(cfg, client)
	if err != nil {
		return err
	}

	bus := chat.NewEventBus(constants.MinEventBusBufferSize)
	defer bus.Close()

	controller := chat.NewController(asker, bus, chat.Options{
		HistoryLimit: cfg.Chat.HistoryLimit,
		TypingDelay:  cfg.Chat.TypingDelay.Duration,
	})

	opts := tui.Options{
		Context:         ctx,
		Controller:      controller,
		Events:          bus.Subscribe(),
		Loader:          newLoader(client, s),
		Searcher:        client,
		Animate:         cfg.Chat.Animate,
		CharDelay:       cfg.Chat.CharDelay.Duration,
		ShakeDuration:   cfg.Chat.ShakeDuration.Duration,
		ScrollThreshold: cfg.Chat.ScrollThreshold,
	}
	if s != nil {
		opts.Inputs = s
		if history, err := s.RecentInputs(constants.MaxInputHistory); err != nil {
			log.Warn().Err(err).Msg("Failed to load input history")
		} else {
			opts.InputHistory = history
		}
	}

	program := tea.NewProgram(tui.New(opts), tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		<-ctx.Done()
		log.Info().Msg("Received shutdown signal")
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	log.Info().Msg("Tilawa shutdown complete")
	return nil
}

func initLogging(debug bool) error {
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Log to file only (TUI owns stdout/stderr)
	writer := &lumberjack.Logger{
		Filename:   filepath.Join(dataDir, "tilawa.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	log.Logger = zerolog.New(writer).With().Timestamp().Logger()
	return nil
}
