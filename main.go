package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/mscartozzoni/noticeq/internal/commands"
	"github.com/mscartozzoni/noticeq/internal/core/config"
	"github.com/mscartozzoni/noticeq/internal/core/styles"
	"github.com/mscartozzoni/noticeq/internal/data/db"
	"github.com/mscartozzoni/noticeq/internal/data/stores"
	"github.com/mscartozzoni/noticeq/internal/portal"
	"github.com/mscartozzoni/noticeq/pkg/logutils"
)

var (
	// Build information. Populated at build-time via -ldflags flag.
	// When installed via `go install module@version`, build() reads
	// these from runtime/debug.BuildInfo instead.
	version = "dev"
	commit  = "HEAD"
	date    = "now"
)

func build() string {
	v, c, d := version, commit, date

	if v == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok {
			if mv := info.Main.Version; mv != "" && mv != "(devel)" {
				v = mv
			}
			for _, s := range info.Settings {
				switch s.Key {
				case "vcs.revision":
					c = s.Value
				case "vcs.time":
					d = s.Value
				}
			}
		}
	}

	short := c
	if len(c) > 7 {
		short = c[:7]
	}

	return fmt.Sprintf("%s (%s) %s", v, short, d)
}

// openDatabase opens the history database, moving a corrupted file aside
// and starting fresh when needed.
func openDatabase(dataDir string) (*db.DB, error) {
	database, err := db.Open(dataDir, db.DefaultOpenOptions())
	if err == nil {
		return database, nil
	}
	if !stores.IsCorruptionError(err) {
		return nil, err
	}

	log.Warn().Err(err).Str("data_dir", dataDir).Msg("history database corrupted, recreating")
	backup, err := stores.RecoverFromCorruption(dataDir, time.Now())
	if err != nil {
		return nil, fmt.Errorf("recover database: %w", err)
	}
	if backup != "" {
		log.Info().Str("backup", backup).Msg("corrupted history saved, starting with empty history")
	}
	return db.Open(dataDir, db.DefaultOpenOptions())
}

func main() {
	ctx := context.Background()

	var (
		logCloser func()
		database  *db.DB
	)

	flags := &commands.Flags{}

	app := &cli.Command{
		Name:      "noticeq",
		Usage:     "Bounded toast notice queues for every portal",
		UsageText: "noticeq [global options] command [command options]",
		Description: `noticeq runs one bounded notice queue per portal. Notices are shown newest
first, auto-dismiss after their TTL, and stay hidden for a grace delay before
they are removed.

Run 'noticeq demo' to watch a scripted walkthrough, or 'noticeq tui' to drive
a queue from the keyboard.`,
		Version: build(),
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "log-level",
				Usage:       "log level (debug, info, warn, error, fatal, panic)",
				Sources:     cli.EnvVars("NOTICEQ_LOG_LEVEL"),
				Value:       "info",
				Destination: &flags.LogLevel,
			},
			&cli.StringFlag{
				Name:        "log-file",
				Usage:       "path to log file (defaults to <data-dir>/noticeq.log, '-' for stderr)",
				Sources:     cli.EnvVars("NOTICEQ_LOG_FILE"),
				Destination: &flags.LogFile,
			},
			&cli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "path to config file",
				Sources:     cli.EnvVars("NOTICEQ_CONFIG"),
				Value:       commands.DefaultConfigPath(),
				Destination: &flags.ConfigPath,
			},
			&cli.StringFlag{
				Name:        "data-dir",
				Usage:       "path to data directory",
				Sources:     cli.EnvVars("NOTICEQ_DATA_DIR"),
				Value:       commands.DefaultDataDir(),
				Destination: &flags.DataDir,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			logFile := flags.LogFile
			switch logFile {
			case "":
				logFile = filepath.Join(flags.DataDir, "noticeq.log")
			case "-":
				logFile = ""
			}

			logger, closer, err := logutils.New(flags.LogLevel, logFile)
			if err != nil {
				return ctx, fmt.Errorf("setup logger: %w", err)
			}
			log.Logger = logger
			logCloser = closer

			// config subcommands load and report on the file themselves
			if c.Args().First() == "config" {
				return ctx, nil
			}

			cfg, err := config.Load(flags.ConfigPath, flags.DataDir)
			if err != nil {
				return ctx, fmt.Errorf("load config: %w", err)
			}
			flags.Config = cfg

			// Apply configured theme (validation ensures name is valid)
			styles.UseTheme(cfg.Theme)

			opts := portal.Options{}
			if cfg.History.Enabled {
				database, err = openDatabase(cfg.DataDir)
				if err != nil {
					return ctx, fmt.Errorf("open database: %w", err)
				}
				flags.History = stores.NewHistoryStore(database, cfg.History.MaxEntries)
				opts.Recorder = flags.History
			}

			flags.Hub = portal.NewHub(cfg, opts)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if flags.Hub != nil {
				flags.Hub.Close()
			}

			// Close database connection
			if database != nil {
				if err := database.Close(); err != nil {
					log.Error().Err(err).Msg("failed to close database")
					return err
				}
			}

			// Close log file
			if logCloser != nil {
				logCloser()
			}
			return nil
		},
	}

	app = commands.NewDemoCmd(flags).Register(app)
	app = commands.NewTuiCmd(flags).Register(app)
	app = commands.NewHistoryCmd(flags).Register(app)
	app = commands.NewConfigValidateCmd(flags).Register(app)

	exitCode := 0
	runErr := app.Run(ctx, os.Args)
	if runErr != nil {
		fmt.Println()
		fmt.Println(runErr.Error())
		exitCode = 1
	}

	os.Exit(exitCode)
}
