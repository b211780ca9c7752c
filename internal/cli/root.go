package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/petrijr/canvas"
	"github.com/petrijr/canvas/internal/workflow"
)

var version = "dev"

type app struct {
	v       *viper.Viper
	cfgFile string
	cfg     Config
	logger  *slog.Logger
}

// NewRootCommand builds the canvas command tree.
func NewRootCommand() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:     "canvas",
		Short:   "Assemble workflow steps from the terminal",
		Long:    `canvas edits an ordered list of workflow steps (data fetches, calculations, conditionals and loops) and saves it to a byte store.`,
		Version: version,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.loadConfig(cmd)
		},
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./canvas.yaml or ~/.config/canvas/config.yaml)")
	pf.String("backend", "", "byte store backend: memory, sqlite, postgres, redis or mongo")
	pf.String("dsn", "", "backend connection string (sqlite file, postgres DSN, redis address/URL, mongo URI)")
	pf.String("key", "", "key the workflow is saved under")
	pf.String("codec", "", "encoding: json or yaml")
	pf.Bool("cache", false, "cache reads from the backend in memory")
	pf.String("log-level", "", "log level: debug, info, warn or error")

	for flag, key := range map[string]string{
		"backend":   "backend",
		"dsn":       "dsn",
		"key":       "key",
		"codec":     "codec",
		"cache":     "cache",
		"log-level": "log_level",
	} {
		_ = a.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		a.editCommand(),
		a.showCommand(),
		a.exportCommand(),
		a.kindsCommand(),
		a.keysCommand(),
	)
	return root
}

// Execute runs the root command with the process arguments.
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

func (a *app) loadConfig(cmd *cobra.Command) error {
	setDefaults(a.v)
	a.v.SetEnvPrefix("CANVAS")
	a.v.SetEnvKeyReplacer(newEnvReplacer())
	a.v.AutomaticEnv()

	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		// Config lookup order:
		// 1. ./canvas.yaml
		// 2. ~/.config/canvas/config.yaml
		a.v.SetConfigType("yaml")
		if _, err := os.Stat("canvas.yaml"); err == nil {
			a.v.SetConfigFile("canvas.yaml")
		} else if home, err := os.UserHomeDir(); err == nil {
			a.v.AddConfigPath(filepath.Join(home, ".config", "canvas"))
			a.v.SetConfigName("config")
		}
	}

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if a.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("decoding config: %w", err)
	}
	if err := a.cfg.Validate(); err != nil {
		return err
	}

	level, _ := parseLevel(a.cfg.LogLevel)
	a.logger = newLogger(cmd.ErrOrStderr(), level)
	a.logger.Debug("config loaded",
		slog.String("backend", a.cfg.Backend),
		slog.String("key", a.cfg.Key),
		slog.String("codec", a.cfg.Codec),
		slog.String("config_file", a.v.ConfigFileUsed()),
	)
	return nil
}

func newEnvReplacer() *strings.Replacer {
	return strings.NewReplacer(".", "_", "-", "_")
}

func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// openSession connects the configured backend and returns a session bound
// to it, plus a function releasing the connection.
func (a *app) openSession(ctx context.Context) (*canvas.Session, func(), error) {
	store, closeFn, err := openStore(ctx, a.cfg)
	if err != nil {
		return nil, nil, err
	}
	codec, err := workflow.CodecByName(a.cfg.Codec)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}

	s := canvas.NewSession(store,
		canvas.WithKey(a.cfg.Key),
		canvas.WithCodec(codec),
		canvas.WithObserver(canvas.NewLoggingObserver(a.logger)),
	)
	release := func() {
		if err := closeFn(); err != nil {
			a.logger.Warn("closing backend", slog.Any("error", err))
		}
	}
	return s, release, nil
}

func (a *app) editCommand() *cobra.Command {
	var load bool
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit the workflow interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if load {
				if err := s.Load(cmd.Context()); err != nil && !errors.Is(err, canvas.ErrNotFound) {
					return err
				}
			}
			return NewREPL(s, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
	cmd.Flags().BoolVar(&load, "load", true, "start from the saved workflow if there is one")
	return cmd
}

func (a *app) showCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the saved workflow",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			printSteps(cmd.OutOrStdout(), s.Steps())
			return nil
		},
	}
}

func (a *app) exportCommand() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the saved workflow in the chosen encoding",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, release, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			if err := s.Load(cmd.Context()); err != nil {
				return err
			}
			codec := s.Codec()
			if format != "" {
				if codec, err = workflow.CodecByName(format); err != nil {
					return err
				}
			}
			return writeExport(cmd.OutOrStdout(), s.Steps(), codec)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "output encoding (json or yaml); defaults to --codec")
	return cmd
}

func (a *app) kindsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "kinds",
		Short: "List the palette components",
		RunE: func(cmd *cobra.Command, args []string) error {
			printPalette(cmd.OutOrStdout())
			return nil
		},
	}
}

func (a *app) keysCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List the keys saved in the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeFn, err := openStore(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = closeFn() }()

			keys, err := store.Keys(cmd.Context())
			if err != nil {
				return err
			}
			for _, k := range keys {
				fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}
}
