// Package cmd wires the engine to its command line surface: a sqlite-backed
// document store, a yaml parameter set and an in-memory host standing in for
// the CAD application.
package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/zjrosen/paratext/internal/config"
	"github.com/zjrosen/paratext/internal/host"
	"github.com/zjrosen/paratext/internal/log"
	"github.com/zjrosen/paratext/internal/registry"
	"github.com/zjrosen/paratext/internal/resolve"
	"github.com/zjrosen/paratext/internal/storage"
	"github.com/zjrosen/paratext/internal/store/sqlite"
)

var (
	version = "dev"
	cfgFile string
	cfg     config.Config

	logCleanup func()
)

var rootCmd = &cobra.Command{
	Use:   "paratext",
	Short: "Parametric text rendering for CAD documents",
	Long: `Paratext keeps small templating expressions bound to display targets and
re-renders them from live parameters and document context. Templates follow
the {base.attribute[slice]:format} mini-language; bindings survive renames
and duplication through durable tokens.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Validate(cfg); err != nil {
			return fmt.Errorf("invalid configuration: %w", err)
		}
		if cfg.Debug || os.Getenv("PARATEXT_DEBUG") != "" {
			logPath := filepath.Join(filepath.Dir(cfg.StorePath), "debug.log")
			if err := os.MkdirAll(filepath.Dir(logPath), 0o750); err == nil {
				if cleanup, err := log.Init(logPath); err == nil {
					logCleanup = cleanup
				}
			}
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			logCleanup()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: .paratext/config.yaml)")
	rootCmd.PersistentFlags().String("store", "",
		"path to the sqlite document store")
	rootCmd.PersistentFlags().StringP("document", "d", "",
		"document name within the store")
	rootCmd.PersistentFlags().StringP("params", "p", "",
		"path to the yaml parameter file")
	rootCmd.PersistentFlags().Bool("debug", false,
		"enable debug logging")

	// Bind flags to viper
	_ = viper.BindPFlag("store_path", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("document", rootCmd.PersistentFlags().Lookup("document"))
	_ = viper.BindPFlag("params_path", rootCmd.PersistentFlags().Lookup("params"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func initConfig() {
	defaults := config.Defaults()
	viper.SetDefault("store_path", defaults.StorePath)
	viper.SetDefault("document", defaults.Document)
	viper.SetDefault("params_path", defaults.ParamsPath)
	viper.SetDefault("auto_refresh", defaults.AutoRefresh)
	viper.SetDefault("watch.debounce_ms", defaults.Watch.DebounceMS)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		// Config lookup order:
		// 1. .paratext/config.yaml (current directory)
		// 2. ~/.config/paratext/config.yaml (user config)
		if _, err := os.Stat(".paratext/config.yaml"); err == nil {
			viper.SetConfigFile(".paratext/config.yaml")
		} else {
			home, _ := os.UserHomeDir()
			viper.AddConfigPath(filepath.Join(home, ".config", "paratext"))
			viper.SetConfigName("config")
			viper.SetConfigType("yaml")
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		// No config file found anywhere - create default at .paratext/config.yaml
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			defaultPath := ".paratext/config.yaml"
			if writeErr := config.WriteDefaultConfig(defaultPath); writeErr == nil {
				viper.SetConfigFile(defaultPath)
				_ = viper.ReadInConfig()
			}
			// If write fails, just continue with defaults (no config file)
		}
	}

	_ = viper.Unmarshal(&cfg)
}

// hostKey is the store entry holding the host snapshot for a document.
func hostKey(document string) string {
	return document + "#host"
}

// workspace bundles everything a command operates on.
type workspace struct {
	store  *sqlite.Client
	doc    *registry.Document
	host   *host.MemoryHost
	params resolve.Namespace
}

// openWorkspace loads the store, the registry document, the host snapshot
// and the parameter set. A v1 document aborts with a pointer to the migrate
// command; decoding never migrates on its own.
func openWorkspace() (*workspace, error) {
	store, err := openStore()
	if err != nil {
		return nil, err
	}

	doc, err := loadDocument(store)
	if err != nil {
		_ = store.Close()
		var needed *storage.MigrationNeededError
		if errors.As(err, &needed) {
			return nil, fmt.Errorf("%w\nRun 'paratext migrate' to convert it", err)
		}
		return nil, err
	}

	h, err := loadHost(store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	params, err := loadParams()
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	return &workspace{store: store, doc: doc, host: h, params: params}, nil
}

func openStore() (*sqlite.Client, error) {
	if cfg.StorePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o750); err != nil {
			return nil, fmt.Errorf("creating store directory: %w", err)
		}
	}
	return sqlite.NewClient(cfg.StorePath)
}

func loadDocument(store *sqlite.Client) (*registry.Document, error) {
	blob, err := store.Get(cfg.Document)
	var notFound *sqlite.NotFoundError
	if errors.As(err, &notFound) {
		return registry.NewDocument(), nil
	}
	if err != nil {
		return nil, err
	}
	return storage.Decode(blob)
}

func loadHost(store *sqlite.Client) (*host.MemoryHost, error) {
	blob, err := store.Get(hostKey(cfg.Document))
	var notFound *sqlite.NotFoundError
	if errors.As(err, &notFound) {
		// A brand-new document has no save yet, the first --next-version
		// render stamps version 1.
		return host.NewMemoryHost(cfg.Document, 0), nil
	}
	if err != nil {
		return nil, err
	}
	return host.RestoreHost(blob)
}

func loadParams() (resolve.Namespace, error) {
	params, err := config.LoadParams(cfg.ParamsPath)
	if errors.Is(err, os.ErrNotExist) {
		return resolve.Namespace{}, nil
	}
	if err != nil {
		return nil, err
	}
	return params, nil
}

// save flushes the registry and the host snapshot back to the store.
func (w *workspace) save() error {
	blob, err := storage.Encode(w.doc)
	if err != nil {
		return err
	}
	if err := w.store.Put(cfg.Document, blob); err != nil {
		return err
	}
	snapshot, err := w.host.Snapshot()
	if err != nil {
		return err
	}
	return w.store.Put(hostKey(cfg.Document), snapshot)
}

func (w *workspace) close() {
	_ = w.store.Close()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// SetVersion sets the version string (called from main with ldflags)
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}
