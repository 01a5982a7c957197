package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// fileConfig is a DTO used exclusively for config file unmarshalling.
// Empty values leave the corresponding Config field untouched.
type fileConfig struct {
	Backend        string `json:"backend" toml:"backend"`
	DatabasePath   string `json:"database_path" toml:"database_path"`
	DatabaseDSN    string `json:"database_dsn" toml:"database_dsn"`
	S3Bucket       string `json:"s3_bucket" toml:"s3_bucket"`
	S3Region       string `json:"s3_region" toml:"s3_region"`
	S3BaseEndpoint string `json:"s3_base_endpoint" toml:"s3_base_endpoint"`
	S3AccessKey    string `json:"s3_access_key" toml:"s3_access_key"`
	S3SecretKey    string `json:"s3_secret_key" toml:"s3_secret_key"`
	S3Prefix       string `json:"s3_prefix" toml:"s3_prefix"`
	LogLevel       string `json:"log_level" toml:"log_level"`
	DisplayMode    string `json:"display_mode" toml:"display_mode"`
	CSVDelimiter   string `json:"csv_delimiter" toml:"csv_delimiter"`
}

// parseFile overlays cfg with values loaded from a JSON or TOML file.
// The format is chosen by extension: .toml is TOML, anything else is JSON.
func parseFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		err = toml.Unmarshal(data, &fc)
	} else {
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	overlay(&cfg.Backend, fc.Backend)
	overlay(&cfg.DatabasePath, fc.DatabasePath)
	overlay(&cfg.DatabaseDSN, fc.DatabaseDSN)
	overlay(&cfg.S3Bucket, fc.S3Bucket)
	overlay(&cfg.S3Region, fc.S3Region)
	overlay(&cfg.S3BaseEndpoint, fc.S3BaseEndpoint)
	overlay(&cfg.S3AccessKey, fc.S3AccessKey)
	overlay(&cfg.S3SecretKey, fc.S3SecretKey)
	overlay(&cfg.S3Prefix, fc.S3Prefix)
	overlay(&cfg.LogLevel, fc.LogLevel)
	overlay(&cfg.DisplayMode, fc.DisplayMode)
	overlay(&cfg.CSVDelimiter, fc.CSVDelimiter)
	return nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
