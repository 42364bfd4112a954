package prog

import (
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the content of a config file. Each field provides the default for
// the flag with the same name; flags given on the command line take
// precedence.
type Config struct {
	DB            string        `yaml:"db"`
	Sock          string        `yaml:"sock"`
	Log           string        `yaml:"log"`
	StopTimeout   time.Duration `yaml:"stop-timeout"`
	FrameInterval time.Duration `yaml:"frame-interval"`
}

// LoadConfig reads a config file. Unknown keys are errors.
func LoadConfig(fname string) (*Config, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	var cfg Config
	// An empty file is a valid config.
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, fmt.Errorf("config %s: %w", fname, err)
	}
	return &cfg, nil
}

// Flag values of the non-zero fields.
func (cfg *Config) flagValues() map[string]string {
	values := make(map[string]string)
	for name, value := range map[string]string{
		"db": cfg.DB, "sock": cfg.Sock, "log": cfg.Log,
	} {
		if value != "" {
			values[name] = value
		}
	}
	for name, d := range map[string]time.Duration{
		"stop-timeout": cfg.StopTimeout, "frame-interval": cfg.FrameInterval,
	} {
		if d != 0 {
			values[name] = d.String()
		}
	}
	return values
}

// Loads the config file, and uses its values for flags that are defined in fs
// but were not set on the command line.
func applyConfig(fs *flag.FlagSet, fname string) error {
	cfg, err := LoadConfig(fname)
	if err != nil {
		return err
	}
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	for name, value := range cfg.flagValues() {
		if set[name] || fs.Lookup(name) == nil {
			continue
		}
		if err := fs.Set(name, value); err != nil {
			return fmt.Errorf("config %s: %s: %w", fname, name, err)
		}
	}
	return nil
}
