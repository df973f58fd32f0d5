package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigWith_Defaults(t *testing.T) {
	cfg, err := LoadConfigWith(viper.New(), "")
	if err != nil {
		t.Fatalf("LoadConfigWith() error = %v", err)
	}
	if cfg.Forecast.HistoryDays != 90 || cfg.Forecast.MaxDays != 14 {
		t.Errorf("forecast defaults = %+v", cfg.Forecast)
	}
	if cfg.Labor.CoversPerServer != 20 || cfg.Labor.CoversPerCook != 40 {
		t.Errorf("labor ratios = %+v", cfg.Labor)
	}
	if cfg.Labor.MaxHoursPerEmployee != 40 {
		t.Errorf("MaxHoursPerEmployee = %v, want 40", cfg.Labor.MaxHoursPerEmployee)
	}
	if cfg.CacheTTL != time.Minute {
		t.Errorf("CacheTTL = %v, want 1m", cfg.CacheTTL)
	}
}

func TestLoadConfigWith_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "flavormetrics.yaml")
	content := `
http_addr: ":9090"
cache_ttl: 5m
labor:
  covers_per_server: 15
  shift_start: "10:30"
kafka:
  enabled: true
  broker_list: "k1:9092,k2:9092"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigWith(viper.New(), path)
	if err != nil {
		t.Fatalf("LoadConfigWith() error = %v", err)
	}
	if cfg.HTTPAddr != ":9090" {
		t.Errorf("HTTPAddr = %q", cfg.HTTPAddr)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.CacheTTL)
	}
	if cfg.Labor.CoversPerServer != 15 || cfg.Labor.CoversPerCook != 40 {
		t.Errorf("labor = %+v", cfg.Labor)
	}
	if cfg.Labor.ShiftStart != "10:30" {
		t.Errorf("ShiftStart = %q", cfg.Labor.ShiftStart)
	}
	if !cfg.Kafka.Enabled || cfg.Kafka.BrokerList != "k1:9092,k2:9092" {
		t.Errorf("kafka = %+v", cfg.Kafka)
	}
}

func TestLoadConfigWith_MissingExplicitFile(t *testing.T) {
	if _, err := LoadConfigWith(viper.New(), filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestConfigValidate(t *testing.T) {
	base := func() Config {
		return Config{
			Forecast: ForecastConfig{HistoryDays: 90, MaxDays: 14},
			Labor:    LaborConfig{CoversPerServer: 20, CoversPerCook: 40, ShiftStart: "11:00", ShiftHours: 9, MaxHoursPerEmployee: 40},
			Export:   ExportConfig{Destination: "local"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"Valid", func(*Config) {}, false},
		{"ZeroHistory", func(c *Config) { c.Forecast.HistoryDays = 0 }, true},
		{"ZeroServerRatio", func(c *Config) { c.Labor.CoversPerServer = 0 }, true},
		{"BadShiftStart", func(c *Config) { c.Labor.ShiftStart = "11am" }, true},
		{"LongShift", func(c *Config) { c.Labor.ShiftHours = 25 }, true},
		{"ZeroMaxHours", func(c *Config) { c.Labor.MaxHoursPerEmployee = 0 }, true},
		{"WeekOfMaxHours", func(c *Config) { c.Labor.MaxHoursPerEmployee = 168 }, false},
		{"UnknownExport", func(c *Config) { c.Export.Destination = "ftp" }, true},
		{"S3Export", func(c *Config) { c.Export.Destination = "s3" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
