// Package config loads the modelkit.yaml file describing the database
// and the entity types the tools work with.
//
//	dialect: mysql
//	dsn: ${BLOG_DSN}
//	models:
//	  dir: ./ent
//	entities:
//	  - name: Author
//	    table: authors
//	    associations:
//	      - {name: posts, type: Post, kind: has_many}
//	  - name: Post
//	    table: posts
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/syssam/modelkit/dialect"
	"github.com/syssam/modelkit/sqlstore"
)

// DefaultFile is the file name looked up when no path is given.
const DefaultFile = "modelkit.yaml"

// Config is the decoded configuration file.
type Config struct {
	Dialect  string             `yaml:"dialect,omitempty"`
	DSN      string             `yaml:"dsn,omitempty"`
	Models   Models             `yaml:"models,omitempty"`
	Entities []*sqlstore.Entity `yaml:"entities,omitempty"`
}

// Models locates the Go packages model discovery loads.
type Models struct {
	Dir      string   `yaml:"dir,omitempty"`
	Patterns []string `yaml:"patterns,omitempty"`
}

// Load reads and parses the file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Parse decodes data. Unknown keys are rejected and environment
// variables in the DSN are expanded.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	cfg.DSN = os.ExpandEnv(cfg.DSN)
	if cfg.Models.Dir == "" {
		cfg.Models.Dir = "."
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the dialect and the entity descriptions.
func (c *Config) Validate() error {
	if c.Dialect != "" && !dialect.Supported(c.Dialect) {
		return fmt.Errorf("unsupported dialect %q", c.Dialect)
	}
	_, err := sqlstore.NewRegistry(c.Entities...)
	return err
}

// Registry returns the entity registry of the configuration.
func (c *Config) Registry() (*sqlstore.Registry, error) {
	return sqlstore.NewRegistry(c.Entities...)
}

// Encode writes c as YAML.
func (c *Config) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return err
	}
	return enc.Close()
}
