// Package config loads and validates the JSON configuration that wires the
// gateway: listen port, database, key file paths, token options, and the
// route table with its public/private policy flags.
package config

import (
	"encoding/json"
	"os"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	goerrors "github.com/goliatone/go-errors"
)

// DefaultPort is used when the configuration does not set one.
const DefaultPort = 8080

// Config is the root configuration document.
type Config struct {
	Server   Server   `json:"server"`
	Database Database `json:"database"`
	Keys     Keys     `json:"keys"`
	Token    Token    `json:"token"`
	Routes   []Route  `json:"routes"`
}

// Server holds transport options.
type Server struct {
	Port int `json:"port"`
}

// Database points at the user store.
type Database struct {
	DSN string `json:"dsn"`
}

// Keys names the PEM files holding the RSA pair.
type Keys struct {
	Private string `json:"private"`
	Public  string `json:"public"`
}

// Token holds issuance options. ExpirationHours defaults to 1.
type Token struct {
	ExpirationHours int      `json:"expiration_hours"`
	Issuer          string   `json:"issuer"`
	Audience        []string `json:"audience"`
}

// Route is one proxied route with its access policy.
type Route struct {
	Path   string `json:"path"`
	Target string `json:"target"`
	Public bool   `json:"public"`
}

// Validate will run validation rules
func (r Route) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Path, validation.Required),
		validation.Field(&r.Target, validation.Required, is.URL),
	)
}

// Validate will run validation rules
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Server),
		validation.Field(&c.Database),
		validation.Field(&c.Keys),
		validation.Field(&c.Routes),
	)
}

// Validate will run validation rules
func (s Server) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// Validate will run validation rules
func (d Database) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.DSN, validation.Required),
	)
}

// Validate will run validation rules
func (k Keys) Validate() error {
	return validation.ValidateStruct(&k,
		validation.Field(&k.Private, validation.Required),
		validation.Field(&k.Public, validation.Required),
	)
}

// Load reads the JSON document at path, applies defaults, and validates it.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryOperation, "unable to read configuration file")
	}

	cfg := &Config{}
	if err := json.Unmarshal(raw, cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryBadInput, "unable to parse configuration file")
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration")
	}

	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if c.Token.ExpirationHours == 0 {
		c.Token.ExpirationHours = 1
	}
}
