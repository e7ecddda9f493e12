package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/datapub/datapub/pkg/config"
)

func withCustomConfig(t *testing.T, content string) {
	configFile := filepath.Join(t.TempDir(), "config.yml")
	if len(content) > 0 {
		require.NoError(t, os.WriteFile(configFile, []byte(content), 0o644))
	}
	previous := GeneralConfig.customConfig
	GeneralConfig.customConfig = configFile
	t.Cleanup(func() { GeneralConfig.customConfig = previous })
}

func TestPrepareConfig(t *testing.T) {
	t.Run("merges file, environment and flags by priority", func(t *testing.T) {
		withCustomConfig(t, `
general:
  service: general-service
steps:
  publishCloudrun:
    memory: 1Gi
    secret: from-file
    extra-options: --setting sql_time_limit_ms 5000
`)
		t.Setenv("DATAPUB_secret", "from-env")

		stepConfig := publishCloudrunOptions{}
		cmd := &cobra.Command{}
		addPublishCloudrunFlags(cmd, &stepConfig)
		require.NoError(t, cmd.ParseFlags([]string{"--memory", "2Gi"}))

		err := PrepareConfig(cmd, "publishCloudrun", &stepConfig, config.OpenFile)

		require.NoError(t, err)
		assert.Equal(t, "general-service", stepConfig.Service)
		assert.Equal(t, "2Gi", stepConfig.Memory)
		assert.Equal(t, "from-env", stepConfig.Secret)
		assert.Equal(t, "--setting sql_time_limit_ms 5000", stepConfig.ExtraOptions)
	})

	t.Run("no configuration file", func(t *testing.T) {
		withCustomConfig(t, "")

		stepConfig := publishCloudrunOptions{}
		cmd := &cobra.Command{}
		addPublishCloudrunFlags(cmd, &stepConfig)
		require.NoError(t, cmd.ParseFlags([]string{"--service", "test"}))

		err := PrepareConfig(cmd, "publishCloudrun", &stepConfig, config.OpenFile)

		require.NoError(t, err)
		assert.Equal(t, "test", stepConfig.Service)
	})

	t.Run("broken configuration file", func(t *testing.T) {
		withCustomConfig(t, "\tnot yaml")

		stepConfig := publishCloudrunOptions{}
		cmd := &cobra.Command{}
		addPublishCloudrunFlags(cmd, &stepConfig)

		err := PrepareConfig(cmd, "publishCloudrun", &stepConfig, config.OpenFile)

		assert.Contains(t, err.Error(), "reading")
	})

	t.Run("repeatable flags resolve into slices", func(t *testing.T) {
		withCustomConfig(t, "")

		stepConfig := publishCloudrunOptions{}
		cmd := &cobra.Command{}
		addPublishCloudrunFlags(cmd, &stepConfig)
		require.NoError(t, cmd.ParseFlags([]string{
			"--service", "test",
			"--install", "datasette-vega",
			"--install", "datasette-cluster-map",
		}))

		err := PrepareConfig(cmd, "publishCloudrun", &stepConfig, config.OpenFile)

		require.NoError(t, err)
		assert.Equal(t, []string{"datasette-vega", "datasette-cluster-map"}, stepConfig.Install)
	})
}
