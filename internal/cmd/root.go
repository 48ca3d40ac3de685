package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/willfong/bankfront/internal/api"
	"github.com/willfong/bankfront/internal/config"
	"github.com/willfong/bankfront/internal/ui"
)

var (
	cfgFile   string
	verbose   bool
	noColor   bool
	assumeYes bool
)

// app is built for each invocation in PersistentPreRunE
var app *App

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "bankfront",
	Short: "Terminal front-end for the banking API",
	Long: `A terminal client for customers and administrators of the banking API.

Customers manage their bank cards and fixed deposits; administrators freeze,
unfreeze and report cards lost. Every mutating operation goes through a
form, a read-only confirmation and exactly one request to the bank.

Settings are read from --config, then BANKFRONT_* environment variables
(a .env file in the working directory is loaded first).

Example usage:
  bankfront login --phone 13800000000
  bankfront cards list
  bankfront cards withdraw 6222020000001234 --amount 500
  bankfront login --admin --username admin
  bankfront admin freeze 6222020000001234 --reason suspicious_activity --detail "..."`,
	PersistentPreRunE: setup,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context) error {
	defer teardown()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		u := ui.New()
		u.SetNoColor(noColor)
		fmt.Fprintln(os.Stderr, u.Error(errorText(err)))
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/bankfront/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colors and animations")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip the confirmation prompt")

	rootCmd.PersistentFlags().String("api-url", config.DefaultBaseURL, "base URL of the banking API")
	rootCmd.PersistentFlags().String("profile", config.DefaultProfile, "session profile name")
	rootCmd.PersistentFlags().String("store", config.DefaultStore, "session store: file, redis, mysql, memory")
	rootCmd.PersistentFlags().String("session-file", "", "session file for the file store")

	_ = viper.BindPFlag("api.base_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("session.profile", rootCmd.PersistentFlags().Lookup("profile"))
	_ = viper.BindPFlag("session.store", rootCmd.PersistentFlags().Lookup("store"))
	_ = viper.BindPFlag("session.path", rootCmd.PersistentFlags().Lookup("session-file"))

	// Silence usage on error - we'll print our own messages
	rootCmd.SilenceUsage = true
	rootCmd.SilenceErrors = true

	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// loadConfig layers .env, the config file and BANKFRONT_* variables over the defaults
func loadConfig() (*config.Config, error) {
	// .env is optional
	_ = godotenv.Load()

	viper.SetEnvPrefix("BANKFRONT")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	config.RegisterDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		if dir, err := os.UserConfigDir(); err == nil {
			viper.AddConfigPath(filepath.Join(dir, "bankfront"))
		}
	}
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if noColor {
		cfg.UI.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, args []string) error {
	if surfaceOf(cmd) == surfaceNone {
		return nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	u := newUI(cmd, cfg)
	a, err := newApp(cmd.Context(), cfg, u)
	if err != nil {
		return err
	}
	app = a

	return app.enter(cmd)
}

func teardown() {
	if app != nil {
		app.Close()
		app = nil
	}
}

// newUI binds the terminal UI to the command's streams
func newUI(cmd *cobra.Command, cfg *config.Config) *ui.UI {
	out := cmd.OutOrStdout()
	in := cmd.InOrStdin()
	if out == os.Stdout && in == os.Stdin {
		u := ui.New()
		u.SetNoColor(cfg.UI.NoColor)
		return u
	}
	return ui.NewPlain(in, out)
}

// errorText is the line shown for an error that ends a command
func errorText(err error) string {
	var redirect *RedirectError
	var invalid *invalidInputError
	switch {
	case errors.As(err, &redirect), errors.As(err, &invalid), errors.Is(err, errCancelled):
		return err.Error()
	case api.ClassifyError(err) == api.ErrorTypeUnknown:
		return err.Error()
	default:
		return api.UserMessage(err)
	}
}
