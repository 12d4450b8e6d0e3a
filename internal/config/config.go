package config

import "time"

// Config holds server configuration values.
type Config struct {
	Addr              string        `mapstructure:"addr" yaml:"addr"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout" yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	LogLevel          string        `mapstructure:"log_level" yaml:"log_level"`

	// RoomCap limits members per room; 0 means unlimited.
	RoomCap int `mapstructure:"room_cap" yaml:"room_cap"`
	// ClientBuffer sizes each connection's outbound event queue.
	ClientBuffer int `mapstructure:"client_buffer" yaml:"client_buffer"`

	// TLS is enabled when both files are set and exist on disk;
	// otherwise the server listens in plain HTTP.
	TLSCertFile string `mapstructure:"tls_cert_file" yaml:"tls_cert_file"`
	TLSKeyFile  string `mapstructure:"tls_key_file" yaml:"tls_key_file"`
}

// Default returns configuration with reasonable starter defaults.
func Default() Config {
	return Config{
		Addr:              ":2087",
		ReadHeaderTimeout: 5 * time.Second,
		ShutdownTimeout:   5 * time.Second,
		LogLevel:          "info",
		RoomCap:           0,
		ClientBuffer:      32,
	}
}

// UpdateFrom overwrites non-zero values from other config into receiver.
func (c *Config) UpdateFrom(other Config) {
	if other.Addr != "" {
		c.Addr = other.Addr
	}
	if other.ReadHeaderTimeout != 0 {
		c.ReadHeaderTimeout = other.ReadHeaderTimeout
	}
	if other.ShutdownTimeout != 0 {
		c.ShutdownTimeout = other.ShutdownTimeout
	}
	if other.LogLevel != "" {
		c.LogLevel = other.LogLevel
	}
	if other.RoomCap != 0 {
		c.RoomCap = other.RoomCap
	}
	if other.ClientBuffer != 0 {
		c.ClientBuffer = other.ClientBuffer
	}
	if other.TLSCertFile != "" {
		c.TLSCertFile = other.TLSCertFile
	}
	if other.TLSKeyFile != "" {
		c.TLSKeyFile = other.TLSKeyFile
	}
}
