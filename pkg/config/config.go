package config

import (
	"io"
	"os"

	"github.com/ghodss/yaml"
	"github.com/mitchellh/mapstructure"
	"github.com/pkg/errors"
)

// OpenFile opens a local configuration file
func OpenFile(name string) (io.ReadCloser, error) {
	return os.Open(name)
}

// Config defines the tool configuration as read from a YAML configuration file.
// General entries apply to every step, step entries only to the named one.
type Config struct {
	General map[string]interface{}            `json:"general,omitempty"`
	Steps   map[string]map[string]interface{} `json:"steps,omitempty"`
}

// StepConfig defines the resolved configuration for one step
type StepConfig struct {
	Config map[string]interface{}
}

// ReadConfig loads config and returns its content
func (c *Config) ReadConfig(configuration io.ReadCloser) error {
	defer configuration.Close()

	content, err := io.ReadAll(configuration)
	if err != nil {
		return errors.Wrap(err, "error reading the configuration text")
	}

	if err := yaml.Unmarshal(content, c); err != nil {
		return errors.Wrap(err, "format of configuration is invalid")
	}
	return nil
}

// GetStepConfig provides the merged step configuration:
// general config < step config < environment values < explicit flag values
func (c *Config) GetStepConfig(stepName string, envValues, flagValues map[string]interface{}) StepConfig {
	stepConfig := StepConfig{Config: map[string]interface{}{}}

	stepConfig.mixIn(c.General)
	stepConfig.mixIn(c.Steps[stepName])
	stepConfig.mixIn(envValues)
	stepConfig.mixIn(flagValues)

	return stepConfig
}

func (s *StepConfig) mixIn(mergeData map[string]interface{}) {
	if s.Config == nil {
		s.Config = map[string]interface{}{}
	}
	for key, value := range mergeData {
		s.Config[key] = value
	}
}

// Resolve decodes the merged configuration into the options struct of a step,
// honoring the json tags of the options.
func (s StepConfig) Resolve(options interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           options,
	})
	if err != nil {
		return errors.Wrap(err, "failed to create configuration decoder")
	}
	if err := decoder.Decode(s.Config); err != nil {
		return errors.Wrap(err, "format of configuration is invalid")
	}
	return nil
}
