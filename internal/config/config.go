package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
}

type InputConfig struct {
	Dir     string `mapstructure:"dir"`
	Pattern string `mapstructure:"pattern"`
}

type OutputConfig struct {
	Dir      string  `mapstructure:"dir"`
	Format   string  `mapstructure:"format"` // png, svg, pdf or eps
	WidthIn  float64 `mapstructure:"width_in"`
	HeightIn float64 `mapstructure:"height_in"`
	CSV      string  `mapstructure:"csv"` // empty disables the export
}

type RunConfig struct {
	SkipInvalid bool `mapstructure:"skip_invalid"`
}

type ReportConfig struct {
	Clients []int `mapstructure:"clients"`
}

type ThresholdConfig struct {
	MaxDelayMs        float64 `mapstructure:"max_delay_ms"`
	MaxPacketLossPct  float64 `mapstructure:"max_packet_loss_pct"`
	MinThroughputMbps float64 `mapstructure:"min_throughput_mbps"`
}

type PublishConfig struct {
	BackendURL         string   `mapstructure:"backend_url"`
	AuthTokenEnv       string   `mapstructure:"auth_token_env"` // e.g. FLOWREPORT_BACKEND_TOKEN
	TimeoutSeconds     int      `mapstructure:"timeout_seconds"`
	InsecureSkipVerify bool     `mapstructure:"insecure_skip_verify"`
	KafkaBrokers       []string `mapstructure:"kafka_brokers"`
	KafkaTopic         string   `mapstructure:"kafka_topic"`
}

type Config struct {
	Input      InputConfig     `mapstructure:"input"`
	Output     OutputConfig    `mapstructure:"output"`
	Run        RunConfig       `mapstructure:"run"`
	Report     ReportConfig    `mapstructure:"report"`
	Thresholds ThresholdConfig `mapstructure:"thresholds"`
	Publish    PublishConfig   `mapstructure:"publish"`
	Logging    LoggingConfig   `mapstructure:"logging"`
}

// DefaultClients are the client counts the experiment sweeps.
var DefaultClients = []int{1, 2, 4, 8, 16, 32}

// LoadConfig reads path (yaml) on top of the defaults. An empty path uses
// defaults and environment only.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// env overrides: FLOWREPORT_INPUT_DIR etc.
	v.SetEnvPrefix("flowreport")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("input.dir", "results")
	v.SetDefault("input.pattern", "flow_*.xml")
	v.SetDefault("output.dir", "results/plots")
	v.SetDefault("output.format", "png")
	v.SetDefault("output.width_in", 10)
	v.SetDefault("output.height_in", 6)
	v.SetDefault("output.csv", "")
	v.SetDefault("run.skip_invalid", false)
	v.SetDefault("report.clients", DefaultClients)
	v.SetDefault("thresholds.max_delay_ms", 0)
	v.SetDefault("thresholds.max_packet_loss_pct", 0)
	v.SetDefault("thresholds.min_throughput_mbps", 0)
	v.SetDefault("publish.backend_url", "")
	v.SetDefault("publish.auth_token_env", "")
	v.SetDefault("publish.timeout_seconds", 5)
	v.SetDefault("publish.insecure_skip_verify", false)
	v.SetDefault("publish.kafka_brokers", []string{})
	v.SetDefault("publish.kafka_topic", "flowreport.summaries")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	// quick sanity checks
	if len(cfg.Report.Clients) == 0 {
		cfg.Report.Clients = append([]int(nil), DefaultClients...)
	}
	if cfg.Output.WidthIn <= 0 {
		cfg.Output.WidthIn = 10
	}
	if cfg.Output.HeightIn <= 0 {
		cfg.Output.HeightIn = 6
	}
	if cfg.Output.Format == "" {
		cfg.Output.Format = "png"
	}
	cfg.Output.Format = strings.ToLower(strings.TrimPrefix(cfg.Output.Format, "."))
	if cfg.Input.Pattern == "" {
		cfg.Input.Pattern = "flow_*.xml"
	}
	if cfg.Publish.TimeoutSeconds <= 0 {
		cfg.Publish.TimeoutSeconds = 5
	}

	return &cfg, nil
}
