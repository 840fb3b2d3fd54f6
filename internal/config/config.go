package config

import (
	"time"

	"power-team-radar/internal/pipeline"
)

// Config is the full service configuration.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Log     LogConfig     `yaml:"log"`
	Fetch   FetchConfig   `yaml:"fetch"`
	Sources SourcesConfig `yaml:"sources"`
	Redis   RedisConfig   `yaml:"redis"`
	Notion  NotionConfig  `yaml:"notion"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Port int `yaml:"port" env:"SERVER_PORT"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level       string `yaml:"level" env:"LOG_LEVEL"`
	Development bool   `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// FetchConfig holds upstream HTTP settings.
type FetchConfig struct {
	TimeoutMS int    `yaml:"timeout_ms" env:"FETCH_TIMEOUT_MS"`
	UserAgent string `yaml:"user_agent" env:"FETCH_USER_AGENT"`
}

// SourcesConfig holds the region and the credentials of gated adapters.
// Adapters whose credentials are empty are not registered.
type SourcesConfig struct {
	Country         string   `yaml:"country" env:"SOURCES_COUNTRY"`
	HomeRegion      string   `yaml:"home_region" env:"SOURCES_HOME_REGION"`
	EventbriteToken string   `yaml:"eventbrite_token" env:"EVENTBRITE_TOKEN"`
	FacebookToken   string   `yaml:"facebook_token" env:"FACEBOOK_TOKEN"`
	FacebookPageIDs []string `yaml:"facebook_page_ids" env:"FACEBOOK_PAGE_IDS"`
	LinkedInToken   string   `yaml:"linkedin_token" env:"LINKEDIN_TOKEN"`
	LinkedInOrgURN  string   `yaml:"linkedin_org_urn" env:"LINKEDIN_ORG_URN"`
}

// RedisConfig enables the Redis subscription store when Address is set.
type RedisConfig struct {
	Address   string `yaml:"address" env:"REDIS_ADDRESS"`
	Password  string `yaml:"password" env:"REDIS_PASSWORD"`
	DB        int    `yaml:"db" env:"REDIS_DB"`
	KeyPrefix string `yaml:"key_prefix" env:"REDIS_KEY_PREFIX"`
}

// NotionConfig holds the clipper credentials.
type NotionConfig struct {
	Token      string `yaml:"token" env:"NOTION_TOKEN"`
	DatabaseID string `yaml:"database_id" env:"NOTION_DATABASE_ID"`
	PageID     string `yaml:"page_id" env:"NOTION_PAGE_ID"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	def := pipeline.DefaultSourceConfig()
	return &Config{
		Server: ServerConfig{Port: 8080},
		Log:    LogConfig{Level: "info"},
		Fetch: FetchConfig{
			TimeoutMS: int(pipeline.DefaultFetchTimeout / time.Millisecond),
			UserAgent: pipeline.DefaultUserAgent,
		},
		Sources: SourcesConfig{
			Country:    def.Country,
			HomeRegion: def.HomeRegion,
		},
		Redis: RedisConfig{KeyPrefix: "radar:"},
	}
}

// FetchTimeout returns the per-source timeout as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.Fetch.TimeoutMS) * time.Millisecond
}

// SourceConfig converts the configuration into adapter settings.
func (c *Config) SourceConfig() pipeline.SourceConfig {
	sc := pipeline.DefaultSourceConfig()
	sc.Fetch.Timeout = c.FetchTimeout()
	if c.Fetch.UserAgent != "" {
		sc.Fetch.UserAgent = c.Fetch.UserAgent
	}
	if c.Sources.Country != "" {
		sc.Country = c.Sources.Country
	}
	if c.Sources.HomeRegion != "" {
		sc.HomeRegion = c.Sources.HomeRegion
	}
	sc.Credentials = pipeline.Credentials{
		EventbriteToken: c.Sources.EventbriteToken,
		FacebookToken:   c.Sources.FacebookToken,
		FacebookPageIDs: c.Sources.FacebookPageIDs,
		LinkedInToken:   c.Sources.LinkedInToken,
		LinkedInOrgURN:  c.Sources.LinkedInOrgURN,
	}
	return sc
}
