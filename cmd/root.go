// Package cmd implements the command-line interface for wikigraph. It
// provides the root command and subcommands for expanding Wikipedia articles
// into a semantic network.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jonesrussell/wikigraph/internal/config"
	"github.com/jonesrussell/wikigraph/internal/extract"
	"github.com/jonesrussell/wikigraph/internal/fetch"
	"github.com/jonesrussell/wikigraph/internal/logger"
	"github.com/jonesrussell/wikigraph/internal/wiki"
)

// version is set at build time.
var version = "0.1.0"

var (
	// cfgFile holds the path to the configuration file.
	cfgFile string

	// debug enables debug logging for all commands.
	debug bool

	// rootCmd represents the root command for the wikigraph CLI.
	rootCmd = &cobra.Command{
		Use:   "wikigraph",
		Short: "Turn Wikipedia into a semantic network",
		Long: `wikigraph fetches Wikipedia articles, extracts their outbound article
links and grows a directed graph whose nodes are articles and whose edges
mean "links to".`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
)

// Execute runs the root command.
func Execute() error {
	// Load .env early so environment variables are available to viper.
	_ = godotenv.Load()

	if err := initConfig(); err != nil {
		return fmt.Errorf("failed to initialize configuration: %w", err)
	}

	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"",
		"config file (default is ./config.yaml)",
	)
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("wikigraph version %s\n", version)
		},
	})

	rootCmd.AddCommand(newExpandCommand())
	rootCmd.AddCommand(newTitleCommand())
	rootCmd.AddCommand(newRunsCommand())
	rootCmd.AddCommand(newServeCommand())
}

// initConfig reads in config file and environment variables if set.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
	}

	viper.SetEnvPrefix("WIKIGRAPH")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Config file is optional: defaults and environment variables cover
	// every setting. A file that exists but fails to parse is still fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	return nil
}

// deps bundles the collaborators every command needs.
type deps struct {
	cfg *config.Config
	log logger.Interface
}

// buildDeps loads configuration and constructs the logger.
func buildDeps() (*deps, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, err
	}
	if debug {
		cfg.App.Debug = true
		cfg.Logging.Level = "debug"
	}

	log, err := logger.New(&logger.Config{
		Level:       cfg.Logging.Level,
		Encoding:    cfg.Logging.Encoding,
		Development: cfg.App.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	return &deps{cfg: cfg, log: log}, nil
}

// newFetcher picks the fetch collaborator from configuration.
func newFetcher(cfg *config.Config) wiki.Fetcher {
	fetchCfg := fetch.Config{
		UserAgent: cfg.Wiki.UserAgent,
		Timeout:   cfg.Wiki.Timeout,
		RateLimit: cfg.Wiki.RateLimit,
		Hosts:     cfg.Wiki.Hosts,
	}
	if cfg.Wiki.Polite {
		return fetch.NewCollyClient(fetchCfg)
	}
	return fetch.NewClient(fetchCfg)
}

// newExtractor picks the extraction strategy.
func newExtractor(cfg *config.Config, structural bool) extract.Extractor {
	if structural {
		return extract.NewDOMExtractor(cfg.Wiki.SiteName)
	}
	return extract.NewPatternExtractor(cfg.Wiki.SiteName)
}

// resolveSeed accepts either an absolute article URL or a bare article path.
func resolveSeed(seed string, hosts []string) (wiki.PageURL, error) {
	if strings.Contains(seed, "://") {
		return wiki.NewPageURL(seed, hosts...)
	}
	return wiki.PageURLFromPath(seed, hosts...)
}
