package cmd

import (
	"context"
	"log"

	"github.com/preppilot/preppilot-cli/internal/logger"
	"github.com/preppilot/preppilot-cli/internal/preppilot"
	"github.com/preppilot/preppilot-cli/internal/session"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "preppilot"
)

type Config struct {
	APIURL    string `mapstructure:"api-url"`
	UserAgent string `mapstructure:"user-agent"`
	TokenFile string `mapstructure:"token-file"`
	AI        *AIConfig
}

type AIConfig struct {
	Gemini *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "preppilot is a cli for managing your PrepPilot account, AI mock interviews and CV screenings",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("token-file", session.EnvTokenFile); err != nil {
		log.Fatalf("binding %s environment variable: %v", session.EnvTokenFile, err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is preppilot.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional; a parse error in an existing one is not.
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound || cfgFile != "" {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	return logger
}

// newClient resolves the session token and builds the API client.
func newClient(ctx context.Context, config *Config, logger *zap.Logger) (*preppilot.Client, *session.Store) {
	tokenFile := config.TokenFile
	if tokenFile == "" {
		tokenFile = viper.GetString("token-file")
	}

	if tokenFile == "" {
		if file, err := session.DefaultTokenFile(); err == nil {
			tokenFile = file
		}
	}

	store := session.NewStore(tokenFile)
	token, err := store.Load()
	if err != nil {
		logger.Fatal(
			"loading preppilot token",
			zap.Error(err),
			zap.String("hint", "set PREPPILOT_TOKEN_FILE environment variable or the 'token-file' key in the configuration file"),
		)
	}

	client := preppilot.New(ctx, logger, token)

	if config.APIURL != "" {
		client.APIURL = config.APIURL
	}

	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}

	return client, store
}
