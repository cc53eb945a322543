package app

import (
	"io/ioutil"
	"os"
	"strings"
	"time"

	"github.com/JiscSD/ed318-validator/zone"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const defaultConfig = `# ED-318 UAS Geographical Zone validator

################################## LOGGING ####################################

[logging]

#
# Logging verbosity level.
# Supported values: "DEBUG", "INFO", "WARN", "ERROR", "FATAL" or "PANIC".
#
level = "INFO"

################################## VALIDATION #################################

[validation]

#
# Documents can be validated in two modes:
#
#   mode="strict"
#   Codes must be spelled exactly as in ED-318, scalar values must have the
#   right JSON type and unrecognized fields are rejected.
#
#   mode="coercive"
#   Codes are case-folded, scalars are converted when possible, empty strings
#   count as absent and unrecognized fields are dropped with a warning.
#
mode = "strict"

#
# Report every failing feature of a collection instead of stopping at the
# first one.
#
collect_all = false

#
# Number of features validated in parallel. Zero or one validates them
# sequentially.
#
concurrency = 0

#
# Run the JSON Schema structural pre-check before decoding.
#
schema_check = false

#
# Reject vertical layers whose lower limit is above the upper limit when both
# share a reference.
#
check_layer_order = false

################################## SERVER #####################################

[server]

addr = ":6060"

#
# Number of validation results kept in memory. Zero disables the cache.
#
cache_size = 256
cache_ttl = "10m"

#
# Largest document accepted by the validation endpoint, in bytes.
#
max_body_bytes = 33554432

################################## SOURCE #####################################

[source]

#
# Timeout of a single HTTP request and total time spent retrying server
# errors.
#
http_timeout = "30s"
retry_max_elapsed = "2m"

################################## AWS ########################################

[aws]

s3_profile = ""
s3_endpoint = ""
s3_region = ""
`

type Config struct {
	v *viper.Viper

	Logging struct {
		Level string `mapstructure:"level"`
	} `mapstructure:"logging"`

	Validation struct {
		Mode            string `mapstructure:"mode"`
		CollectAll      bool   `mapstructure:"collect_all"`
		Concurrency     int    `mapstructure:"concurrency"`
		SchemaCheck     bool   `mapstructure:"schema_check"`
		CheckLayerOrder bool   `mapstructure:"check_layer_order"`
	} `mapstructure:"validation"`

	Server struct {
		Addr         string        `mapstructure:"addr"`
		CacheSize    int           `mapstructure:"cache_size"`
		CacheTTL     time.Duration `mapstructure:"cache_ttl"`
		MaxBodyBytes int64         `mapstructure:"max_body_bytes"`
	} `mapstructure:"server"`

	Source struct {
		HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
		RetryMaxElapsed time.Duration `mapstructure:"retry_max_elapsed"`
	} `mapstructure:"source"`

	AWS struct {
		S3Profile  string `mapstructure:"s3_profile"`
		S3Endpoint string `mapstructure:"s3_endpoint"`
		S3Region   string `mapstructure:"s3_region"`
	} `mapstructure:"aws"`
}

func (c Config) Validate() error {
	if _, err := zone.ParseMode(c.Validation.Mode); err != nil {
		return errors.Wrap(err, "validation.mode")
	}
	if c.Validation.Concurrency < 0 {
		return errors.New("validation.concurrency must not be negative")
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is empty")
	}
	if c.Server.CacheSize < 0 {
		return errors.New("server.cache_size must not be negative")
	}
	if c.Server.MaxBodyBytes < 0 {
		return errors.New("server.max_body_bytes must not be negative")
	}
	if c.Source.HTTPTimeout < 0 || c.Source.RetryMaxElapsed < 0 {
		return errors.New("source timeouts must not be negative")
	}
	return nil
}

func (c Config) String() string {
	tmpfile, err := ioutil.TempFile("", "config.*.toml")
	if err != nil {
		return err.Error()
	}
	defer os.Remove(tmpfile.Name())
	defer tmpfile.Close()

	err = c.v.WriteConfigAs(tmpfile.Name())
	if err != nil {
		return err.Error()
	}
	blob, err := ioutil.ReadAll(tmpfile)
	if err != nil {
		return err.Error()
	}
	return string(blob)
}

func loadConfig(c *Config) error {
	v := viper.New()

	v.SetEnvPrefix("ED318_VALIDATOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("ed318-validator")
	v.SetConfigType("toml")
	v.AddConfigPath("$HOME/.config/")
	v.AddConfigPath("/etc/ed318-validator/")

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read our default configuration.
	if err := v.ReadConfig(strings.NewReader(defaultConfig)); err != nil {
		panic(err) // Not in the user path.
	}

	// Include configuration file provided by the user.
	if err := v.MergeInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return err
		}
	}

	if err := v.Unmarshal(c); err != nil {
		return errors.Wrap(err, "configuration unmarshaling failed")
	}

	if err := c.Validate(); err != nil {
		return errors.Wrap(err, "config did not pass validation")
	}

	c.v = v

	return nil
}
