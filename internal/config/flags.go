package config

import (
	"github.com/spf13/pflag"
)

// flagField maps a command-line flag to the Config field it sets.
type flagField struct {
	name  string
	usage string
	field func(*Config) *string
}

var flagFields = []flagField{
	{"backend", "blob store backend: sqlite, postgres, s3 or memory", func(c *Config) *string { return &c.Backend }},
	{"db", "path to the SQLite database", func(c *Config) *string { return &c.DatabasePath }},
	{"dsn", "PostgreSQL DSN", func(c *Config) *string { return &c.DatabaseDSN }},
	{"s3-bucket", "S3 bucket holding the password list", func(c *Config) *string { return &c.S3Bucket }},
	{"s3-region", "S3 region", func(c *Config) *string { return &c.S3Region }},
	{"s3-endpoint", "S3-compatible endpoint URL (empty for AWS)", func(c *Config) *string { return &c.S3BaseEndpoint }},
	{"s3-access-key", "S3 access key", func(c *Config) *string { return &c.S3AccessKey }},
	{"s3-secret-key", "S3 secret key", func(c *Config) *string { return &c.S3SecretKey }},
	{"s3-prefix", "key prefix inside the bucket", func(c *Config) *string { return &c.S3Prefix }},
	{"log-level", "log level: debug, info, warn, error", func(c *Config) *string { return &c.LogLevel }},
	{"display", "password display: masked, plain, hashed", func(c *Config) *string { return &c.DisplayMode }},
	{"delimiter", "CSV field delimiter for imports", func(c *Config) *string { return &c.CSVDelimiter }},
}

// BindFlags registers the configuration flags on fs. Parsed values land in
// target; Load decides which of them take effect.
func BindFlags(fs *pflag.FlagSet, target *Config) {
	defaults := Default()
	fs.StringP("config", "c", "", "path to a JSON or TOML config file")
	for _, f := range flagFields {
		fs.StringVar(f.field(target), f.name, *f.field(defaults), f.usage)
	}
}

// Load constructs a Config from defaults, then the optional config file
// named by --config, then every flag the user explicitly set on fs.
// Later sources take precedence over earlier ones.
func Load(fs *pflag.FlagSet, flags *Config) (*Config, error) {
	cfg := Default()

	path, err := fs.GetString("config")
	if err != nil {
		return nil, err
	}
	if path != "" {
		if err := parseFile(cfg, path); err != nil {
			return nil, err
		}
	}

	for _, f := range flagFields {
		if fs.Changed(f.name) {
			*f.field(cfg) = *f.field(flags)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
