package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/jonboulle/clockwork"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lox/barocast/internal/metrics"
	"github.com/lox/barocast/internal/models"
	"github.com/lox/barocast/internal/store"
)

type Globals struct {
	EnvFile kongdotenv.ENVFileConfig `kong:"optional,name=env-file,default='.env',help='Path to .env file'"`

	DB          string `help:"Path to SQLite journal." default:"data/barocast.db" env:"BAROCAST_DB" type:"path"`
	NoJournal   bool   `help:"Neither read nor write the journal." env:"BAROCAST_NO_JOURNAL"`
	MetricsFile string `help:"Write Prometheus metrics to this textfile on exit." env:"BAROCAST_METRICS_FILE" type:"path"`
	LogLevel    string `help:"Log level." default:"info" enum:"debug,info,warn,error" env:"BAROCAST_LOG_LEVEL"`
	LogFormat   string `help:"Log format." default:"console" enum:"console,json" env:"BAROCAST_LOG_FORMAT"`

	Station    string  `help:"Station name recorded in the journal." default:"default" env:"BAROCAST_STATION"`
	Hemisphere string  `help:"Hemisphere the station is in." default:"north" enum:"north,south" env:"BAROCAST_HEMISPHERE"`
	Highest    float64 `help:"Highest pressure ever recorded at the station (hPa)." default:"1050" env:"BAROCAST_HIGHEST"`
	Lowest     float64 `help:"Lowest pressure ever recorded at the station (hPa)." default:"950" env:"BAROCAST_LOWEST"`
	Altitude   float64 `help:"Station altitude in metres, for sea-level pressure." default:"0" env:"BAROCAST_ALTITUDE"`
}

type CLI struct {
	Globals

	Forecast ForecastCmd `cmd:"" help:"Issue a Zambretti forecast for a pressure reading."`
	Describe DescribeCmd `cmd:"" help:"Print only the forecast text for a pressure reading."`
	Indices  IndicesCmd  `cmd:"" help:"Print derived comfort indices for temperature and humidity."`
	AQI      AQICmd      `cmd:"" name:"aqi" help:"Print the US EPA air quality index for particulate readings."`
	History  HistoryCmd  `cmd:"" help:"List journalled forecasts."`
	Prune    PruneCmd    `cmd:"" help:"Delete old journal entries."`
}

// app carries what every command needs once flags are parsed.
type app struct {
	*Globals
	ctx    context.Context
	clock  clockwork.Clock
	logger *zap.SugaredLogger
}

func (g *Globals) station() models.Station {
	return models.Station{
		Name:            g.Station,
		Northern:        g.Hemisphere != "south",
		Altitude:        g.Altitude,
		HighestPressure: g.Highest,
		LowestPressure:  g.Lowest,
	}
}

// openJournal returns nil when journalling is disabled.
func (a *app) openJournal() (*store.Store, error) {
	if a.NoJournal {
		return nil, nil
	}
	if dir := filepath.Dir(a.DB); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create journal dir: %w", err)
		}
	}
	st, err := store.Open(a.DB, a.logger)
	if err != nil {
		return nil, err
	}
	a.logger.Debugf("journal: opened %s", a.DB)
	return st, nil
}

func newLogger(level, format string) (*zap.SugaredLogger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	if format == "console" {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.Encoding = format
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("barocast"),
		kong.Description("Zambretti barometric forecaster."),
		kong.UsageOnError(),
	)

	logger, err := newLogger(cli.LogLevel, cli.LogFormat)
	kctx.FatalIfErrorf(err)
	defer logger.Sync()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	a := &app{Globals: &cli.Globals, ctx: ctx, clock: clockwork.NewRealClock(), logger: logger}
	runErr := kctx.Run(a)

	if cli.MetricsFile != "" {
		if err := metrics.WriteTextfile(cli.MetricsFile); err != nil {
			logger.Errorf("metrics: write %s: %v", cli.MetricsFile, err)
		}
	}

	kctx.FatalIfErrorf(runErr)
}
