package config

import (
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver     string `mapstructure:"driver"` // postgres or sqlite
		Host       string `mapstructure:"host"`
		Port       string `mapstructure:"port"`
		User       string `mapstructure:"user"`
		Password   string `mapstructure:"password"`
		Name       string `mapstructure:"name"`
		SQLitePath string `mapstructure:"sqlite_path"`
	} `mapstructure:"database"`
	Telemetry struct {
		// Backend "primary" keeps raw readings in the main database;
		// "clickhouse" sends them to a dedicated time-series store.
		Backend            string `mapstructure:"backend"`
		ClickHouseAddr     string `mapstructure:"clickhouse_addr"`
		ClickHouseDatabase string `mapstructure:"clickhouse_database"`
		ClickHouseUser     string `mapstructure:"clickhouse_user"`
		ClickHousePassword string `mapstructure:"clickhouse_password"`
	} `mapstructure:"telemetry"`
	MQTT struct {
		Broker   string `mapstructure:"broker"`
		ClientID string `mapstructure:"client_id"`
		Username string `mapstructure:"username"`
		Password string `mapstructure:"password"`
		Topic    string `mapstructure:"topic"`
	} `mapstructure:"mqtt"`
	Server struct {
		Port        string `mapstructure:"port"`
		MetricsPort string `mapstructure:"metrics_port"`
		Mode        string `mapstructure:"mode"` // release or debug
	} `mapstructure:"server"`
	Engine struct {
		OptimalThreshold   float64 `mapstructure:"optimal_threshold"`
		GoodThreshold      float64 `mapstructure:"good_threshold"`
		MinRangeConfidence float64 `mapstructure:"min_range_confidence"`
		SlotsFile          string  `mapstructure:"slots_file"`
		GenresFile         string  `mapstructure:"genres_file"`
		Matcher            string  `mapstructure:"matcher"`
	} `mapstructure:"engine"`
	Learning struct {
		HistoryDays    int     `mapstructure:"history_days"`
		TopPercentile  float64 `mapstructure:"top_percentile"`
		SigmaBand      float64 `mapstructure:"sigma_band"`
		MinPoints      int     `mapstructure:"min_points"`
		MinSlotSamples int     `mapstructure:"min_slot_samples"`
		PointsTarget   float64 `mapstructure:"points_target"`
		IntervalHours  int     `mapstructure:"interval_hours"`
	} `mapstructure:"learning"`
	Ingest struct {
		LookupGenres bool   `mapstructure:"lookup_genres"`
		MetricsPort  string `mapstructure:"metrics_port"`
	} `mapstructure:"ingest"`
	Archive struct {
		Provider  string `mapstructure:"provider"` // none, local or s3
		LocalPath string `mapstructure:"local_path"`
		Bucket    string `mapstructure:"bucket"`
		KeyID     string `mapstructure:"key_id"`
		AppKey    string `mapstructure:"app_key"`
		Endpoint  string `mapstructure:"endpoint"`
		Region    string `mapstructure:"region"`
	} `mapstructure:"archive"`
}

func Load() *Config {
	viper.SetEnvPrefix("PULSE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// Register keys
	viper.BindEnv("database.driver")
	viper.BindEnv("database.host")
	viper.BindEnv("database.port")
	viper.BindEnv("database.user")
	viper.BindEnv("database.password")
	viper.BindEnv("database.name")
	viper.BindEnv("database.sqlite_path")

	viper.BindEnv("telemetry.backend")
	viper.BindEnv("telemetry.clickhouse_addr")
	viper.BindEnv("telemetry.clickhouse_database")
	viper.BindEnv("telemetry.clickhouse_user")
	viper.BindEnv("telemetry.clickhouse_password")

	viper.BindEnv("mqtt.broker")
	viper.BindEnv("mqtt.client_id")
	viper.BindEnv("mqtt.username")
	viper.BindEnv("mqtt.password")
	viper.BindEnv("mqtt.topic")

	viper.BindEnv("server.port")
	viper.BindEnv("server.metrics_port")
	viper.BindEnv("server.mode")

	// Engine Bindings
	viper.BindEnv("engine.optimal_threshold")
	viper.BindEnv("engine.good_threshold")
	viper.BindEnv("engine.min_range_confidence")
	viper.BindEnv("engine.slots_file")
	viper.BindEnv("engine.genres_file")
	viper.BindEnv("engine.matcher")

	// Learning Bindings
	viper.BindEnv("learning.history_days")
	viper.BindEnv("learning.top_percentile")
	viper.BindEnv("learning.sigma_band")
	viper.BindEnv("learning.min_points")
	viper.BindEnv("learning.min_slot_samples")
	viper.BindEnv("learning.points_target")
	viper.BindEnv("learning.interval_hours")

	viper.BindEnv("ingest.lookup_genres")
	viper.BindEnv("ingest.metrics_port")

	viper.BindEnv("archive.provider")
	viper.BindEnv("archive.local_path")
	viper.BindEnv("archive.bucket")
	viper.BindEnv("archive.key_id")
	viper.BindEnv("archive.app_key")
	viper.BindEnv("archive.endpoint")
	viper.BindEnv("archive.region")

	// Defaults
	viper.SetDefault("database.driver", "postgres")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.name", "venue_pulse")
	viper.SetDefault("database.sqlite_path", "./venue_pulse.db")

	viper.SetDefault("telemetry.backend", "primary")

	viper.SetDefault("mqtt.broker", "tcp://localhost:1883")
	viper.SetDefault("mqtt.client_id", "pulse-ingester")
	viper.SetDefault("mqtt.topic", "venue/+/reading")

	viper.SetDefault("server.port", ":8080")
	viper.SetDefault("server.metrics_port", ":9091")
	viper.SetDefault("server.mode", "release")

	// Engine Defaults (thresholds mirror the dashboard color bands)
	viper.SetDefault("engine.optimal_threshold", 80)
	viper.SetDefault("engine.good_threshold", 60)
	viper.SetDefault("engine.min_range_confidence", 0.30)
	viper.SetDefault("engine.matcher", "keyword")

	// Learning Defaults
	viper.SetDefault("learning.history_days", 180)
	viper.SetDefault("learning.top_percentile", 0.20)
	viper.SetDefault("learning.sigma_band", 0.75)
	viper.SetDefault("learning.min_points", 20)
	viper.SetDefault("learning.min_slot_samples", 6)
	viper.SetDefault("learning.points_target", 1250)
	viper.SetDefault("learning.interval_hours", 24)

	viper.SetDefault("ingest.lookup_genres", false)
	viper.SetDefault("ingest.metrics_port", ":9092")

	viper.SetDefault("archive.provider", "none")
	viper.SetDefault("archive.local_path", "./archive")
	viper.SetDefault("archive.bucket", "pulse-archive")

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("Warning: Config error: %s", err)
		} else {
			log.Println("Info: config.yaml not found, using Environment Variables only.")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		log.Fatalf("Unable to decode config: %v", err)
	}

	if cfg.Database.Driver == "postgres" && cfg.Database.Host == "" {
		log.Fatal("Critical: database host is missing (PULSE_DATABASE_HOST), or set PULSE_DATABASE_DRIVER=sqlite")
	}

	return &cfg
}
