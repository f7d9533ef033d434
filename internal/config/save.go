package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrExists is returned by SaveTo when the target exists and overwrite is off.
var ErrExists = errors.New("config: file already exists")

const header = "# glbkit configuration. Flags override these values.\n"

// DefaultPath is the file Save writes and Load falls back to.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), FileName)
}

// Marshal renders the config as commented YAML.
func (c *Config) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(header)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Save writes the config to DefaultPath.
func (c *Config) Save(overwrite bool) error {
	return c.SaveTo(DefaultPath(), overwrite)
}

// SaveTo validates the config and writes it to path, creating parent
// directories. An existing file is kept unless overwrite is set.
func (c *Config) SaveTo(path string, overwrite bool) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
