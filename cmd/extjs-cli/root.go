package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	extjs "github.com/goliatone/go-extjs"
	pkgopenapi "github.com/goliatone/go-extjs/pkg/openapi"
)

const (
	envPrefix      = "EXTJS"
	configName     = ".extjs"
	defaultAddr    = ":8080"
	defaultExtPath = "/ext"
	fetchTimeout   = 15 * time.Second
)

// settings is the merged flag, environment and .extjs.yml configuration.
type settings struct {
	AppPath     string   `mapstructure:"app_path"`
	Extension   string   `mapstructure:"extension"`
	Controllers []string `mapstructure:"controllers"`
	OpenAPI     []string `mapstructure:"openapi"`
	Addr        string   `mapstructure:"addr"`
	LogLevel    string   `mapstructure:"log_level"`
	ExtPath     string   `mapstructure:"ext_path"`
	Theme       string   `mapstructure:"theme"`
}

type cli struct {
	v        *viper.Viper
	cfgFile  string
	settings settings
	logger   *zap.Logger

	// pick chooses a controller when proxy runs without one.
	pick        func(options []string) (string, error)
	interactive func() bool
}

func newCLI() *cli {
	return &cli{
		v:           viper.New(),
		logger:      zap.NewNop(),
		pick:        surveyPick,
		interactive: stdinIsTerminal,
	}
}

func newRootCommand() *cobra.Command {
	return newCLI().command()
}

func (c *cli) command() *cobra.Command {
	root := &cobra.Command{
		Use:   "extjs-cli",
		Short: "Inspect and serve ExtJS controller descriptors",
		Long: `extjs-cli loads controller descriptors from YAML tables and OpenAPI
documents carrying x-extjs metadata. It prints routes, generates the
JavaScript proxies client code calls and lints descriptor sources.

Settings come from flags, EXTJS_* environment variables and .extjs.yml.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = c.logger.Sync()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfgFile, "config", "", "config file (default is ./.extjs.yml)")
	flags.String("app-path", "", "path every action URL starts with")
	flags.String("extension", "", "action URL extension (default \"ext\")")
	flags.StringSlice("controllers", nil, "directories holding controller descriptor tables")
	flags.StringSlice("openapi", nil, "OpenAPI documents (paths or URLs) with x-extjs metadata")
	flags.String("log-level", "warn", "log level (debug, info, warn, error)")
	flags.String("ext-path", defaultExtPath, "URL of the ExtJS distribution")
	flags.String("theme", extjs.DefaultThemeName, "ExtJS theme name")

	for key, flag := range map[string]string{
		"app_path":    "app-path",
		"extension":   "extension",
		"controllers": "controllers",
		"openapi":     "openapi",
		"log_level":   "log-level",
		"ext_path":    "ext-path",
		"theme":       "theme",
	} {
		_ = c.v.BindPFlag(key, flags.Lookup(flag))
	}
	c.v.SetDefault("addr", defaultAddr)

	root.AddCommand(
		newProxyCommand(c),
		newRoutesCommand(c),
		newLintCommand(c),
		newServeCommand(c),
	)
	return root
}

func (c *cli) init() error {
	if c.cfgFile != "" {
		c.v.SetConfigFile(c.cfgFile)
	} else {
		c.v.AddConfigPath(".")
		c.v.SetConfigType("yaml")
		c.v.SetConfigName(configName)
	}
	c.v.SetEnvPrefix(envPrefix)
	c.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	c.v.AutomaticEnv()

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	if err := c.v.Unmarshal(&c.settings); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}

	logger, err := buildLogger(c.settings.LogLevel)
	if err != nil {
		return err
	}
	c.logger = logger
	if used := c.v.ConfigFileUsed(); used != "" {
		c.logger.Debug("config loaded", zap.String("file", used))
	}
	return nil
}

func buildLogger(level string) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if strings.TrimSpace(level) != "" {
		parsed, err := zap.ParseAtomicLevel(level)
		if err != nil {
			return nil, fmt.Errorf("log level: %w", err)
		}
		config.Level = parsed
	}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

// application loads every configured descriptor source.
func (c *cli) application(ctx context.Context) (*extjs.Application, error) {
	app := extjs.New(
		extjs.WithApplicationPath(c.settings.AppPath),
		extjs.WithExtension(c.settings.Extension),
		extjs.WithLogger(c.logger),
		extjs.WithTheme(extjs.NewThemeConfig(c.settings.ExtPath, c.settings.Theme, extjs.DefaultAssetsPrefix)),
	)

	for _, dir := range c.settings.Controllers {
		if err := app.LoadControllers(os.DirFS(dir)); err != nil {
			return nil, fmt.Errorf("controllers %s: %w", dir, err)
		}
	}
	for _, raw := range c.settings.OpenAPI {
		src, err := parseSource(raw)
		if err != nil {
			return nil, err
		}
		err = app.LoadOpenAPI(ctx, src, pkgopenapi.WithHTTPClient(&http.Client{Timeout: fetchTimeout}))
		if err != nil {
			return nil, fmt.Errorf("openapi %s: %w", raw, err)
		}
	}

	c.logger.Debug("descriptors loaded", zap.Int("controllers", len(app.Tree().List())))
	return app, nil
}

func parseSource(raw string) (pkgopenapi.Source, error) {
	path := strings.TrimSpace(raw)
	if path == "" {
		return nil, errors.New("empty openapi source")
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return pkgopenapi.SourceFromURL(path)
	}
	return pkgopenapi.SourceFromFile(path), nil
}
