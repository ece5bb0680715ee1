// Package config loads the YAML run configuration. Values come from the
// defaults, then the file, then the environment; command line flags are
// applied last by the caller.
package config

import (
	"io/ioutil"
	"os"
	"strconv"

	"github.com/bytearena/geoswarm/programs"
	"github.com/bytearena/geoswarm/swarm"
	"github.com/bytearena/geoswarm/swarmserver/topology"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfiguration = topology.ErrInvalidConfiguration

type SimulationConfig struct {
	Range    float64 `yaml:"range"` // metres
	Rounds   uint32  `yaml:"rounds"`
	Tps      int     `yaml:"tps"`
	Parallel bool    `yaml:"parallel"`
	Seed     int64   `yaml:"seed"`
	Strategy string  `yaml:"strategy"`
}

type SwarmConfig struct {
	swarm.Layout `yaml:",inline"`
	Program      string `yaml:"program"`
}

type VizConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

type RecordingConfig struct {
	File string `yaml:"file"`
}

// BrokerConfig with an empty host keeps the message broker in process.
type BrokerConfig struct {
	Host string `yaml:"host"`
}

type HealthConfig struct {
	Port int `yaml:"port"`
}

type MetricsConfig struct {
	InfluxdbAddr string `yaml:"influxdb_addr"`
	InfluxdbDb   string `yaml:"influxdb_db"`
}

type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Swarm      SwarmConfig      `yaml:"swarm"`
	Viz        VizConfig        `yaml:"viz"`
	Recording  RecordingConfig  `yaml:"recording"`
	Broker     BrokerConfig     `yaml:"broker"`
	Health     HealthConfig     `yaml:"health"`
	Metrics    MetricsConfig    `yaml:"metrics"`
}

func DefaultConfig() *Config {
	return &Config{
		Simulation: SimulationConfig{
			Range:    500,
			Rounds:   0,
			Tps:      10,
			Strategy: "bruteforce",
		},
		Swarm: SwarmConfig{
			Layout:  swarm.DefaultLayout(),
			Program: "gradient-walk",
		},
		Viz: VizConfig{
			Enabled: true,
			Addr:    "0.0.0.0:8081",
		},
	}
}

// Parse reads YAML over the defaults; keys absent from data keep their
// default value.
func Parse(data []byte) (*Config, error) {
	config := DefaultConfig()

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "could not parse configuration")
	}

	return config, nil
}

func LoadFile(filename string) (*Config, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "could not read configuration file "+filename)
	}

	config, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, filename)
	}

	if err := config.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// ApplyEnv overrides the configuration from the environment.
func (config *Config) ApplyEnv(lookup func(key string) (string, bool)) error {
	if value, ok := lookup("INFLUXDB_ADDR"); ok {
		config.Metrics.InfluxdbAddr = value
	}

	if value, ok := lookup("INFLUXDB_DB"); ok {
		config.Metrics.InfluxdbDb = value
	}

	if value, ok := lookup("GEOSWARM_BROKER"); ok {
		config.Broker.Host = value
	}

	if value, ok := lookup("GEOSWARM_RANGE"); ok {
		commrange, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return errors.Wrap(ErrInvalidConfiguration, "GEOSWARM_RANGE: "+err.Error())
		}

		config.Simulation.Range = commrange
	}

	return nil
}

func (config *Config) Validate() error {
	if err := topology.ValidateRange(config.Simulation.Range); err != nil {
		return err
	}

	if config.Simulation.Tps < 0 {
		return errors.Wrap(ErrInvalidConfiguration, "tps must not be negative; got "+strconv.Itoa(config.Simulation.Tps))
	}

	if _, err := topology.ParseStrategy(config.Simulation.Strategy); err != nil {
		return err
	}

	if err := config.Swarm.Layout.Validate(); err != nil {
		return err
	}

	if _, err := programs.Load(config.Swarm.Program); err != nil {
		return errors.Wrap(ErrInvalidConfiguration, err.Error())
	}

	if config.Health.Port < 0 || config.Health.Port > 65535 {
		return errors.Wrap(ErrInvalidConfiguration, "health port out of range: "+strconv.Itoa(config.Health.Port))
	}

	return nil
}

// GetStrategy assumes a validated configuration.
func (config *Config) GetStrategy() topology.Strategy {
	strategy, _ := topology.ParseStrategy(config.Simulation.Strategy)
	return strategy
}
