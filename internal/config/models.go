package config

import (
	"fmt"
	"time"
)

// ParserConfig represents the configuration of the signature service
type ParserConfig struct {
	MaxBodySize    int
	BlockedSenders []string
	RejectMeetings bool
}

// StoreConfig represents the configuration of the contact store
type StoreConfig struct {
	Type             string
	Enabled          bool
	TTL              time.Duration
	CleanupFrequency time.Duration
	SQLitePath       string
	MySQLDSN         string
}

// HeadersConfig names the headers added to annotated mail
type HeadersConfig struct {
	Name    string
	Company string
	Phone   string
}

// RelayConfig represents where the SMTP filter hands mail back to the MTA
type RelayConfig struct {
	Enabled bool
	Address string
	Port    int
}

// ServerConfig represents the configuration of the front ends
type ServerConfig struct {
	FilterType    string
	ListenAddress string
	HTTPAddress   string
	Annotate      bool
	Headers       HeadersConfig
	Relay         RelayConfig
}

// GetParser returns the parser configuration
func (c *Config) GetParser() ParserConfig {
	return ParserConfig{
		MaxBodySize:    c.GetInt("parser.max_body_size"),
		BlockedSenders: c.GetStringSlice("parser.blocked_senders"),
		RejectMeetings: c.GetBool("parser.reject_meetings"),
	}
}

// GetStore returns the contact store configuration
func (c *Config) GetStore() (StoreConfig, error) {
	ttl, err := c.GetDuration("store.ttl")
	if err != nil {
		return StoreConfig{}, fmt.Errorf("invalid store.ttl: %w", err)
	}

	cleanupFreq, err := c.GetDuration("store.cleanup_frequency")
	if err != nil {
		return StoreConfig{}, fmt.Errorf("invalid store.cleanup_frequency: %w", err)
	}

	return StoreConfig{
		Type:             c.GetString("store.type"),
		Enabled:          c.GetBool("store.enabled"),
		TTL:              ttl,
		CleanupFrequency: cleanupFreq,
		SQLitePath:       c.GetString("store.sqlite_path"),
		MySQLDSN:         c.GetString("store.mysql_dsn"),
	}, nil
}

// GetServer returns the front end configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		FilterType:    c.GetString("server.filter_type"),
		ListenAddress: c.GetString("server.listen_address"),
		HTTPAddress:   c.GetString("server.http_address"),
		Annotate:      c.GetBool("server.annotate"),
		Headers: HeadersConfig{
			Name:    c.GetString("server.headers.name"),
			Company: c.GetString("server.headers.company"),
			Phone:   c.GetString("server.headers.phone"),
		},
		Relay: RelayConfig{
			Enabled: c.GetBool("server.relay.enabled"),
			Address: c.GetString("server.relay.address"),
			Port:    c.GetInt("server.relay.port"),
		},
	}
}
