package cloudrun

import (
	"encoding/json"
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/datapub/datapub/pkg/clierr"
	"github.com/datapub/datapub/pkg/log"
	"github.com/datapub/datapub/pkg/pubutils"
)

// BuildMetadata merges the user-supplied metadata file with the metadata
// flags and the plugin secret references. It returns nil when there is no
// metadata content at all.
func BuildMetadata(options Options, utils pubutils.FileUtils) ([]byte, error) {
	metadata := map[string]interface{}{}

	if len(options.Metadata) > 0 {
		content, err := utils.FileRead(options.Metadata)
		if err != nil {
			log.SetErrorCategory(log.ErrorConfiguration)
			return nil, clierr.Wrap(2, err, fmt.Sprintf("failed to read metadata file '%v'", options.Metadata))
		}
		// ghodss/yaml accepts JSON input as well since YAML is a superset
		if err := yaml.Unmarshal(content, &metadata); err != nil {
			log.SetErrorCategory(log.ErrorConfiguration)
			return nil, clierr.Wrap(2, err, fmt.Sprintf("failed to parse metadata file '%v'", options.Metadata))
		}
	}

	for key, value := range map[string]string{
		"title":        options.Title,
		"license":      options.License,
		"license_url":  options.LicenseURL,
		"source":       options.Source,
		"source_url":   options.SourceURL,
		"about":        options.About,
		"about_url":    options.AboutURL,
		"version_note": options.VersionNote,
	} {
		if len(value) > 0 {
			metadata[key] = value
		}
	}

	for _, secret := range options.PluginSecrets {
		plugins, ok := metadata["plugins"].(map[string]interface{})
		if !ok {
			plugins = map[string]interface{}{}
			metadata["plugins"] = plugins
		}
		plugin, ok := plugins[secret.Plugin].(map[string]interface{})
		if !ok {
			plugin = map[string]interface{}{}
			plugins[secret.Plugin] = plugin
		}
		plugin[secret.Key] = map[string]interface{}{"$env": secret.EnvName()}
	}

	if len(metadata) == 0 {
		return nil, nil
	}
	return json.MarshalIndent(metadata, "", "    ")
}
