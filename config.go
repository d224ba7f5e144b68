package main

import (
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/coreos/pkg/capnslog"
	"github.com/ztrue/tracerr"
	"gopkg.in/yaml.v2"
)

// Names of the project files looked up by loadConfig, in order.
var configNames = []string{"leanparse.yaml", "leanparse.yml", "leanparse.toml"}

var outputFormats = []string{"repr", "json", "yaml", "lean"}

type projectConfig struct {
	Extensions []string `yaml:"extensions" toml:"extensions"`
	Format     string   `yaml:"format" toml:"format"`
	Workers    int      `yaml:"workers" toml:"workers"`
	LogLevel   string   `yaml:"log_level" toml:"log_level"`
}

func defaultConfig() projectConfig {
	return projectConfig{
		Extensions: []string{".lean"},
		Format:     "repr",
		Workers:    4,
		LogLevel:   "INFO",
	}
}

// loadConfig reads the first project file found in dir. Without one the
// defaults are returned.
func loadConfig(dir string) (projectConfig, error) {
	for _, name := range configNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return loadConfigFile(path)
		}
	}
	plog.Debugf("no project file in %s, using defaults", dir)
	return defaultConfig(), nil
}

// loadConfigFile picks the decoder from the file extension. Keys missing
// from the file keep their default values.
func loadConfigFile(path string) (projectConfig, error) {
	cfg := defaultConfig()

	data, err := ioutil.ReadFile(path)
	if err != nil {
		return cfg, tracerr.Wrap(err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.UnmarshalStrict(data, &cfg)
	case ".toml":
		var md toml.MetaData
		md, err = toml.Decode(string(data), &cfg)
		if err == nil {
			for _, key := range md.Undecoded() {
				plog.Warningf("%s: unknown key %s", path, key)
			}
		}
	default:
		return cfg, tracerr.Errorf("%s: unsupported config format %q", path, ext)
	}
	if err != nil {
		return cfg, tracerr.Errorf("reading %s: %v", path, err)
	}

	plog.Debugf("loaded %s", path)
	return cfg, cfg.validate()
}

func (c projectConfig) validate() error {
	if c.Workers < 1 {
		return tracerr.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	if !validFormat(c.Format) {
		return tracerr.Errorf("unknown format %q, expected one of %s", c.Format, strings.Join(outputFormats, ", "))
	}
	if len(c.Extensions) == 0 {
		return tracerr.New("extensions must not be empty")
	}
	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return tracerr.Errorf("extension %q must start with a dot", ext)
		}
	}
	if _, err := c.level(); err != nil {
		return err
	}
	return nil
}

func (c projectConfig) level() (capnslog.LogLevel, error) {
	l, err := capnslog.ParseLevel(strings.ToUpper(c.LogLevel))
	if err != nil {
		return l, tracerr.Errorf("log level %q: %v", c.LogLevel, err)
	}
	return l, nil
}

func validFormat(f string) bool {
	for _, o := range outputFormats {
		if o == f {
			return true
		}
	}
	return false
}

// writeDefaultConfig creates leanparse.yaml in dir. An existing file is
// left alone.
func writeDefaultConfig(dir string) (string, error) {
	path := filepath.Join(dir, configNames[0])
	if _, err := os.Stat(path); err == nil {
		return path, tracerr.Errorf("%s already exists", path)
	}

	out, err := yaml.Marshal(defaultConfig())
	if err != nil {
		return path, tracerr.Wrap(err)
	}
	if err := ioutil.WriteFile(path, out, 0644); err != nil {
		return path, tracerr.Wrap(err)
	}
	return path, nil
}

func (c projectConfig) String() string {
	return fmt.Sprintf("extensions=%v format=%s workers=%d log_level=%s", c.Extensions, c.Format, c.Workers, c.LogLevel)
}
