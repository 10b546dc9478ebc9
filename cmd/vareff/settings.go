package main

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/inodb/vareff/internal/ensembl"
	"github.com/inodb/vareff/internal/gene"
	"github.com/inodb/vareff/internal/genelist"
	"github.com/inodb/vareff/internal/pipeline"
	"github.com/inodb/vareff/internal/report"
	"github.com/inodb/vareff/internal/variant"
)

const configName = ".vareff"

// Settings is the resolved configuration for one invocation.
type Settings struct {
	BaseURL     string
	ContentType string
	Species     string
	Timeout     time.Duration
	Workers     int
	Genes       []string
	Caption     string
	ServeAddr   string
	Verbose     bool
}

func setDefaults() {
	viper.SetDefault("ensembl.base_url", ensembl.DefaultBaseURL)
	viper.SetDefault("ensembl.content_type", ensembl.ContentTypeJSON)
	viper.SetDefault("ensembl.species", gene.DefaultSpecies)
	viper.SetDefault("ensembl.timeout", "0s")
	viper.SetDefault("pipeline.workers", 0)
	viper.SetDefault("genes", genelist.DefaultSymbols)
	viper.SetDefault("report.caption", report.DefaultCaption)
	viper.SetDefault("serve.addr", ":8080")
}

// initConfig loads .env, VAREFF_* environment variables and the config file.
// A missing default config file is not an error; a missing explicit one is.
func initConfig(cfgFile string) error {
	_ = godotenv.Load()

	setDefaults()
	viper.SetEnvPrefix("VAREFF")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(configName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

// defaultConfigPath is where `config set` writes when no file was loaded.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, configName+".yaml"), nil
}

func loadSettings() Settings {
	return Settings{
		BaseURL:     viper.GetString("ensembl.base_url"),
		ContentType: viper.GetString("ensembl.content_type"),
		Species:     viper.GetString("ensembl.species"),
		Timeout:     viper.GetDuration("ensembl.timeout"),
		Workers:     viper.GetInt("pipeline.workers"),
		Genes:       genelist.Parse(strings.Join(viper.GetStringSlice("genes"), ",")),
		Caption:     viper.GetString("report.caption"),
		ServeAddr:   viper.GetString("serve.addr"),
		Verbose:     viper.GetBool("verbose"),
	}
}

// newLogger builds the CLI logger: warnings only unless verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}

func newClient(s Settings, logger *zap.Logger) *ensembl.Client {
	return ensembl.NewClient(s.BaseURL,
		ensembl.WithHTTPClient(&http.Client{Timeout: s.Timeout}),
		ensembl.WithLogger(logger.Named("ensembl")))
}

func newDriver(s Settings, c *ensembl.Client, logger *zap.Logger) *pipeline.Driver {
	return pipeline.NewDriver(
		gene.NewResolver(c, s.Species),
		variant.NewAggregator(c),
		pipeline.WithWorkers(s.Workers),
		pipeline.WithLogger(logger.Named("pipeline")),
	)
}
