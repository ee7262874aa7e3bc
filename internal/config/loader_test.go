package config_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/smartystreets/goconvey/convey"

	"github.com/PratikDhanave/lightscan-service/internal/config"
)

var configEnvVars = []string{
	"LIGHTSCAN_CONFIG",
	"LIGHTSCAN_ADDR",
	"LIGHTSCAN_STORE_DRIVER",
	"LIGHTSCAN_DB_URL",
	"LIGHTSCAN_SQLITE_PATH",
	"LIGHTSCAN_TIMEZONE",
	"LIGHTSCAN_API_KEYS",
	"LIGHTSCAN_INGEST_RPS",
	"LIGHTSCAN_INGEST_BURST",
	"LIGHTSCAN_MQTT_ENABLED",
	"LIGHTSCAN_MQTT_BROKER",
	"LIGHTSCAN_MQTT_TOPIC",
	"LIGHTSCAN_LOG_LEVEL",
}

func clearConfigEnvVars() {
	for _, v := range configEnvVars {
		_ = os.Unsetenv(v)
	}
}

func createTempConfigFile(content string) string {
	f, err := os.CreateTemp("", "lightscan-config-*.yaml")
	if err != nil {
		panic(err)
	}
	if _, err := f.WriteString(content); err != nil {
		panic(err)
	}
	if err := f.Close(); err != nil {
		panic(err)
	}
	return f.Name()
}

func TestConfig_New(t *testing.T) {
	convey.Convey("Given the defaults", t, func() {
		cfg := config.New()
		convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
		convey.So(cfg.StoreDriver, convey.ShouldEqual, "postgres")
		convey.So(cfg.Timezone, convey.ShouldEqual, "UTC")
		convey.So(cfg.MQTTTopic, convey.ShouldEqual, "lights/scans")
		convey.So(cfg.MQTTEnabled, convey.ShouldBeFalse)
	})
}

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		convey.Reset(clearConfigEnvVars)

		convey.Convey("The postgres default requires a db_url", func() {
			cfg, err := config.Load(ctx)
			convey.So(cfg, convey.ShouldBeNil)
			convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			convey.So(err.Error(), convey.ShouldContainSubstring, "db_url required")
		})

		convey.Convey("Environment variables override defaults", func() {
			_ = os.Setenv("LIGHTSCAN_DB_URL", "postgres://localhost/lights")
			_ = os.Setenv("LIGHTSCAN_ADDR", ":9090")
			_ = os.Setenv("LIGHTSCAN_INGEST_RPS", "2.5")
			_ = os.Setenv("LIGHTSCAN_INGEST_BURST", "4")
			_ = os.Setenv("LIGHTSCAN_MQTT_ENABLED", "true")
			_ = os.Setenv("LIGHTSCAN_TIMEZONE", "Europe/Bucharest")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.DBURL, convey.ShouldEqual, "postgres://localhost/lights")
			convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
			convey.So(cfg.IngestRPS, convey.ShouldEqual, 2.5)
			convey.So(cfg.IngestBurst, convey.ShouldEqual, 4)
			convey.So(cfg.MQTTEnabled, convey.ShouldBeTrue)
			loc, err := cfg.Location()
			convey.So(err, convey.ShouldBeNil)
			convey.So(loc.String(), convey.ShouldEqual, "Europe/Bucharest")
		})

		convey.Convey("A YAML file is layered under the environment", func() {
			path := createTempConfigFile(`
store_driver: sqlite
sqlite_path: /tmp/lightscan-test.db
addr: ":7070"
api_keys: "dashboard:abc, sim:def"
`)
			defer func() { _ = os.Remove(path) }()
			_ = os.Setenv("LIGHTSCAN_CONFIG", path)
			_ = os.Setenv("LIGHTSCAN_ADDR", ":6060")

			cfg, err := config.Load(ctx)
			convey.So(err, convey.ShouldBeNil)
			convey.So(cfg.StoreDriver, convey.ShouldEqual, "sqlite")
			convey.So(cfg.SQLitePath, convey.ShouldEqual, "/tmp/lightscan-test.db")
			convey.So(cfg.Addr, convey.ShouldEqual, ":6060")
			keys, err := cfg.KeyClients()
			convey.So(err, convey.ShouldBeNil)
			convey.So(keys, convey.ShouldResemble, map[string]string{"abc": "dashboard", "def": "sim"})
		})

		convey.Convey("A missing config file is a load error", func() {
			_ = os.Setenv("LIGHTSCAN_CONFIG", "/non/existent/lightscan.yaml")
			cfg, err := config.Load(ctx)
			convey.So(cfg, convey.ShouldBeNil)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Invalid YAML is a load error", func() {
			path := createTempConfigFile(`invalid: yaml: content: [`)
			defer func() { _ = os.Remove(path) }()
			_ = os.Setenv("LIGHTSCAN_CONFIG", path)
			_, err := config.Load(ctx)
			convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
		})

		convey.Convey("Validation rejects bad values", func() {
			_ = os.Setenv("LIGHTSCAN_STORE_DRIVER", "memory")

			convey.Convey("unknown driver", func() {
				_ = os.Setenv("LIGHTSCAN_STORE_DRIVER", "mongo")
				_, err := config.Load(ctx)
				convey.So(err.Error(), convey.ShouldContainSubstring, "unknown store_driver")
			})
			convey.Convey("unknown timezone", func() {
				_ = os.Setenv("LIGHTSCAN_TIMEZONE", "Mars/Olympus")
				_, err := config.Load(ctx)
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
			})
			convey.Convey("malformed api keys", func() {
				_ = os.Setenv("LIGHTSCAN_API_KEYS", "justakey")
				_, err := config.Load(ctx)
				convey.So(err.Error(), convey.ShouldContainSubstring, "name:key")
			})
			convey.Convey("empty addr", func() {
				_ = os.Setenv("LIGHTSCAN_ADDR", "")
				_, err := config.Load(ctx)
				convey.So(err.Error(), convey.ShouldContainSubstring, "addr must not be empty")
			})
			convey.Convey("memory driver with defaults is valid", func() {
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				keys, _ := cfg.KeyClients()
				convey.So(keys, convey.ShouldBeEmpty)
			})
		})
	})
}
