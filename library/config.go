package library

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Root is a directory of sprites published under a name.
type Root struct {
	Name string `yaml:"name"`
	Dir  string `yaml:"dir"`
}

type ThumbnailConfig struct {
	Width  uint `yaml:"width"`
	Height uint `yaml:"height"`
}

// Config describes what Load reads. It is usually kept in a YAML file:
//
//	roots:
//	  - name: chars
//	    dir: /srv/sprites/characters
//	concurrency: 4
//	strict: false
//	thumbnail: {width: 64, height: 64}
type Config struct {
	Roots []Root `yaml:"roots"`

	// Concurrency bounds the number of files decoded at once. Zero means
	// DefaultConcurrency.
	Concurrency int `yaml:"concurrency"`

	// Strict makes a file that fails to decode fail the whole load. If
	// unset such files are logged and left out.
	Strict bool `yaml:"strict"`

	Thumbnail ThumbnailConfig `yaml:"thumbnail"`
}

const (
	DefaultConcurrency = 4
	DefaultThumbnail   = 64
)

// LoadConfig parses a YAML config and fills in defaults.
func LoadConfig(r io.Reader) (*Config, error) {
	var c Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, "parsing library config")
	}
	c.setDefaults()
	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadConfigFile is LoadConfig on the named file.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening library config")
	}
	defer f.Close()
	return LoadConfig(f)
}

// SingleRoot is the config for serving one directory.
func SingleRoot(name, dir string) *Config {
	c := &Config{Roots: []Root{{Name: name, Dir: dir}}}
	c.setDefaults()
	return c
}

func (c *Config) setDefaults() {
	if c.Concurrency <= 0 {
		c.Concurrency = DefaultConcurrency
	}
	if c.Thumbnail.Width == 0 {
		c.Thumbnail.Width = DefaultThumbnail
	}
	if c.Thumbnail.Height == 0 {
		c.Thumbnail.Height = DefaultThumbnail
	}
}

func (c *Config) validate() error {
	seen := make(map[string]bool)
	for i, r := range c.Roots {
		if r.Name == "" || r.Dir == "" {
			return errors.Errorf("root %d: name and dir are required", i)
		}
		if seen[r.Name] {
			return errors.Errorf("root %q listed twice", r.Name)
		}
		seen[r.Name] = true
	}
	return nil
}
