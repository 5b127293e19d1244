// Package config loads ESME settings from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	smpp "github.com/majiddarvishan/smppsession"
	"github.com/majiddarvishan/smppsession/pdu"
	"github.com/majiddarvishan/smppsession/utility"
)

// Config is the root of the configuration file.
type Config struct {
	Session SessionConfig `yaml:"session"`
	Bind    BindConfig    `yaml:"bind"`
	Message MessageConfig `yaml:"message"`
	Log     LogConfig     `yaml:"log"`
}

// SessionConfig holds session timers and limits. Timers are in seconds.
type SessionConfig struct {
	WindowTimeout        int     `yaml:"window_timeout"`
	EnquireInterval      int     `yaml:"enquire_interval"`
	IdleThreshold        int     `yaml:"idle_threshold"`
	ShortMessageMaxBytes int     `yaml:"short_message_max_bytes"`
	SubmitRate           float64 `yaml:"submit_rate"`
	SystemID             string  `yaml:"system_id"`
}

// BindConfig describes the SMSC to bind to.
type BindConfig struct {
	Addr       string `yaml:"addr"`
	Mode       string `yaml:"mode"`
	SystemID   string `yaml:"system_id"`
	Password   string `yaml:"password"`
	SystemType string `yaml:"system_type"`
	AddrTon    int    `yaml:"addr_ton"`
	AddrNpi    int    `yaml:"addr_npi"`
	AddrRange  string `yaml:"addr_range"`
}

// MessageConfig holds defaults for outgoing messages.
type MessageConfig struct {
	Strategy string `yaml:"strategy"`
	Coding   string `yaml:"coding"`
}

// LogConfig selects the log level.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads, defaults and validates the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a YAML document into a Config.
func Parse(data []byte) (*Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	if err := c.Normalize(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Normalize fills unset fields with defaults and validates the result.
func (c *Config) Normalize() error {
	c.setDefaults()
	return c.Validate()
}

func (c *Config) setDefaults() {
	if c.Session.WindowTimeout <= 0 {
		c.Session.WindowTimeout = int(smpp.DefaultWindowTimeout / time.Second)
	}
	if c.Session.EnquireInterval == 0 {
		c.Session.EnquireInterval = int(smpp.DefaultEnquireInterval / time.Second)
	}
	if c.Session.IdleThreshold <= 0 {
		c.Session.IdleThreshold = int(smpp.DefaultIdleThreshold / time.Second)
	}
	if c.Session.ShortMessageMaxBytes <= 0 {
		c.Session.ShortMessageMaxBytes = utility.DefaultShortMessageMaxBytes
	}
	if c.Bind.Mode == "" {
		c.Bind.Mode = "trx"
	}
	if c.Message.Strategy == "" {
		c.Message.Strategy = utility.StrategyUDH8.String()
	}
	if c.Message.Coding == "" {
		c.Message.Coding = "auto"
	}
	if c.Log.Level == "" {
		c.Log.Level = zerolog.InfoLevel.String()
	}
}

// Validate reports the first missing or malformed setting.
func (c *Config) Validate() error {
	switch {
	case c.Bind.Addr == "":
		return errors.New("config: bind.addr is required")
	case c.Bind.SystemID == "":
		return errors.New("config: bind.system_id is required")
	case c.Bind.Password == "":
		return errors.New("config: bind.password is required")
	}
	if _, err := c.BindMode(); err != nil {
		return err
	}
	if _, err := c.Strategy(); err != nil {
		return err
	}
	if _, _, err := c.Coding(); err != nil {
		return err
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// BindMode parses bind.mode.
func (c *Config) BindMode() (pdu.BindMode, error) {
	switch strings.ToLower(c.Bind.Mode) {
	case "tx", "transmitter":
		return pdu.Transmitter, nil
	case "rx", "receiver":
		return pdu.Receiver, nil
	case "trx", "transceiver":
		return pdu.Transceiver, nil
	}
	return 0, fmt.Errorf("config: unknown bind mode %q", c.Bind.Mode)
}

// Strategy parses message.strategy.
func (c *Config) Strategy() (utility.Strategy, error) {
	return utility.ParseStrategy(strings.ToLower(c.Message.Strategy))
}

var codings = map[string]pdu.DataCoding{
	"default":  pdu.CodingDefault,
	"ia5":      pdu.CodingIA5,
	"latin1":   pdu.CodingLatin1,
	"cyrillic": pdu.CodingCyrillic,
	"hebrew":   pdu.CodingHebrew,
	"ucs2":     pdu.CodingUCS2,
}

// Coding parses message.coding. auto reports true and leaves detection to
// the caller.
func (c *Config) Coding() (dc pdu.DataCoding, auto bool, err error) {
	name := strings.ToLower(c.Message.Coding)
	if name == "auto" {
		return pdu.CodingDefault, true, nil
	}
	dc, ok := codings[name]
	if !ok {
		return 0, false, fmt.Errorf("config: unknown coding %q", c.Message.Coding)
	}
	return dc, false, nil
}

// Level returns the configured log level, info if unparsable.
func (c *Config) Level() zerolog.Level {
	l, err := zerolog.ParseLevel(c.Log.Level)
	if err != nil {
		return zerolog.InfoLevel
	}
	return l
}

// SessionConf converts the session section. A negative enquire_interval
// disables keep-alive.
func (c *Config) SessionConf(logger *zerolog.Logger) smpp.SessionConf {
	enquire := time.Duration(c.Session.EnquireInterval) * time.Second
	if c.Session.EnquireInterval < 0 {
		enquire = -1
	}
	return smpp.SessionConf{
		WindowTimeout:        time.Duration(c.Session.WindowTimeout) * time.Second,
		EnquireInterval:      enquire,
		IdleThreshold:        time.Duration(c.Session.IdleThreshold) * time.Second,
		ShortMessageMaxBytes: c.Session.ShortMessageMaxBytes,
		SubmitRate:           c.Session.SubmitRate,
		SystemID:             c.Session.SystemID,
		Logger:               logger,
	}
}

// BindConf converts the bind section.
func (c *Config) BindConf() smpp.BindConf {
	return smpp.BindConf{
		Addr:       c.Bind.Addr,
		SystemID:   c.Bind.SystemID,
		Password:   c.Bind.Password,
		SystemType: c.Bind.SystemType,
		AddrTon:    c.Bind.AddrTon,
		AddrNpi:    c.Bind.AddrNpi,
		AddrRange:  c.Bind.AddrRange,
	}
}
