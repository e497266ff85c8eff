// Package iocfg loads pipeline configuration — codec choice, batch
// sizing, bracket timeouts, backend DSNs — from YAML. The teacher's
// own util/config package parses YAML with a hand-rolled flat
// key:value scanner and says as much in its own comment ("for complex
// configuration, use gopkg.in/yaml.v3"); iocfg is that upgrade, built
// on the real library instead.
package iocfg

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"
)

// Codec names a codec.XxxInum constructor a pipeline wants chained in.
// iocfg never imports codec itself, so loading configuration doesn't
// pull in every compression library just to read a file.
type Codec string

const (
	CodecNone   Codec = "none"
	CodecGzip   Codec = "gzip"
	CodecZlib   Codec = "zlib"
	CodecBrotli Codec = "brotli"
	CodecSnappy Codec = "snappy"
	CodecLZ4    Codec = "lz4"
)

// BackendConfig is one database/queue backend's connection details —
// covers MySQL/ClickHouse/Elasticsearch/MongoDB DSNs and an Asynq
// broker address uniformly as a DSN plus a free-form options bag.
type BackendConfig struct {
	Kind    string            `yaml:"kind"`
	DSN     string            `yaml:"dsn"`
	Options map[string]string `yaml:"options,omitempty"`
}

// Duration wraps time.Duration so it can be parsed from YAML strings
// like "10s" or "1m30s". yaml.v3 has no built-in support for
// time.Duration: its underlying type is int64, so without this the
// decoder would only accept a plain number of nanoseconds.
type Duration time.Duration

// UnmarshalYAML accepts either a duration string ("10s") or a plain
// integer number of nanoseconds.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err == nil {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
		return nil
	}
	var n int64
	if err := value.Decode(&n); err != nil {
		return err
	}
	*d = Duration(n)
	return nil
}

// BracketConfig controls an enum.Bracket's acquire/release timeouts.
type BracketConfig struct {
	AcquireTimeout Duration `yaml:"acquire_timeout"`
	ReleaseTimeout Duration `yaml:"release_timeout"`
}

// Pipeline describes one end-to-end wiring: which codec(s) to chain,
// how many rows/bytes to batch per chunk, the bracket timeouts for
// its source, and the backend it reads from or writes to.
type Pipeline struct {
	Name      string        `yaml:"name"`
	Codecs    []Codec       `yaml:"codecs,omitempty"`
	BatchSize int           `yaml:"batch_size"`
	Bracket   BracketConfig `yaml:"bracket"`
	Backend   BackendConfig `yaml:"backend"`
}

// Config is a full pipeline configuration file: one or more named
// pipelines.
type Config struct {
	Pipelines []Pipeline `yaml:"pipelines"`
}

// Load reads and parses a YAML pipeline configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

// Parse decodes YAML pipeline configuration from data and fills in
// defaults for every pipeline it finds.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	for i := range cfg.Pipelines {
		if err := cfg.Pipelines[i].applyDefaults(); err != nil {
			return nil, err
		}
	}
	return &cfg, nil
}

func (p *Pipeline) applyDefaults() error {
	if p.Name == "" {
		return fmt.Errorf("iocfg: a pipeline entry is missing a name")
	}
	if p.BatchSize <= 0 {
		p.BatchSize = 1
	}
	if p.Bracket.AcquireTimeout <= 0 {
		p.Bracket.AcquireTimeout = Duration(10 * time.Second)
	}
	if p.Bracket.ReleaseTimeout <= 0 {
		p.Bracket.ReleaseTimeout = Duration(5 * time.Second)
	}
	for _, c := range p.Codecs {
		switch c {
		case CodecNone, CodecGzip, CodecZlib, CodecBrotli, CodecSnappy, CodecLZ4:
		default:
			return fmt.Errorf("iocfg: pipeline %q: unknown codec %q", p.Name, c)
		}
	}
	return nil
}

// Find returns the named pipeline, or (nil, false) if none matches.
func (c *Config) Find(name string) (*Pipeline, bool) {
	for i := range c.Pipelines {
		if c.Pipelines[i].Name == name {
			return &c.Pipelines[i], true
		}
	}
	return nil, false
}
