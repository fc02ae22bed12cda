// Package config loads bqrtool settings from a YAML file in the user's home directory.
package config

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/rigado/btcodec"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	CfgFilename   = ".btcodec.yaml"
	CacheFilename = ".btcodec-reports.json"

	TransportHCI    = "hci"
	TransportUart   = "uart"
	TransportSocket = "socket"
)

type Config struct {
	LogLevel    string          `yaml:"log_level"`
	CachePath   string          `yaml:"cache_path"`
	MetricsAddr string          `yaml:"metrics_addr"`
	Transport   TransportConfig `yaml:"transport"`
}

// TransportConfig selects where HCI events are read from.
type TransportConfig struct {
	Kind          string        `yaml:"kind"`
	HCIDevice     int           `yaml:"hci_device"`
	UartPath      string        `yaml:"uart_path"`
	BaudRate      uint          `yaml:"baud_rate"`
	SocketAddr    string        `yaml:"socket_addr"`
	// Zero timeouts select the transport defaults.
	SocketTimeout time.Duration `yaml:"socket_timeout"`
	FrameTimeout  time.Duration `yaml:"frame_timeout"`
}

func Default() *Config {
	return &Config{
		LogLevel:  "info",
		CachePath: filepath.Join("~", CacheFilename),
		Transport: TransportConfig{
			Kind:          TransportHCI,
			HCIDevice:     -1,
			UartPath:      "/dev/ttyACM0",
			BaudRate:      1000000,
			SocketTimeout: time.Second,
			FrameTimeout:  500 * time.Millisecond,
		},
	}
}

// DefaultPath is the config file in the user's home directory.
func DefaultPath() (string, error) {
	dir, err := homedir.Dir()
	if err != nil {
		return "", errors.Wrap(err, "can't find home directory")
	}

	return filepath.Join(dir, CfgFilename), nil
}

// Load reads path over the defaults. An empty path means DefaultPath, which may be absent.
func Load(path string) (*Config, error) {
	optional := path == ""
	if optional {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	path, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can't expand %v", path)
	}

	cfg := Default()
	data, err := ioutil.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrapf(err, "can't parse config file %v", path)
		}
	case os.IsNotExist(err) && optional:
		btcodec.GetLogger().Debugf("no config file at %v, using defaults", path)
	default:
		return nil, errors.Wrapf(err, "can't read config file %v", path)
	}

	if cfg.CachePath, err = homedir.Expand(cfg.CachePath); err != nil {
		return nil, errors.Wrap(err, "cache_path")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %v", path)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return errors.Wrap(err, "log_level")
	}
	if c.CachePath == "" {
		return errors.New("cache_path is empty")
	}
	return c.Transport.Validate()
}

func (t *TransportConfig) Validate() error {
	switch t.Kind {
	case TransportHCI:
		if t.HCIDevice < -1 {
			return errors.Errorf("invalid hci_device %d", t.HCIDevice)
		}
	case TransportUart:
		if t.UartPath == "" {
			return errors.New("uart transport needs uart_path")
		}
		if t.BaudRate == 0 {
			return errors.New("uart transport needs baud_rate")
		}
	case TransportSocket:
		if t.SocketAddr == "" {
			return errors.New("socket transport needs socket_addr")
		}
	default:
		return errors.Errorf("unknown transport %q", t.Kind)
	}

	if t.FrameTimeout < 0 || t.SocketTimeout < 0 {
		return errors.New("timeouts must not be negative")
	}
	return nil
}
