package cmd

import (
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/datapub/datapub/pkg/config"
	"github.com/datapub/datapub/pkg/pubutils"
)

// PrepareConfig resolves the configuration of a step from the configuration
// file, DATAPUB_* environment variables and explicitly set flags, in
// ascending order of priority.
func PrepareConfig(cmd *cobra.Command, stepName string, options interface{}, openFile func(name string) (io.ReadCloser, error)) error {
	var c config.Config

	if exists, _ := (pubutils.Files{}).FileExists(GeneralConfig.customConfig); exists {
		f, err := openFile(GeneralConfig.customConfig)
		if err != nil {
			return errors.Wrapf(err, "config: open failed for '%v'", GeneralConfig.customConfig)
		}
		if err := c.ReadConfig(f); err != nil {
			return errors.Wrapf(err, "config: reading '%v' failed", GeneralConfig.customConfig)
		}
	}

	stepConfig := c.GetStepConfig(stepName, envValues(cmd.Flags()), flagValues(cmd.Flags()))
	return stepConfig.Resolve(options)
}

func envValues(flags *pflag.FlagSet) map[string]interface{} {
	values := map[string]interface{}{}
	flags.VisitAll(func(flag *pflag.Flag) {
		if env, ok := os.LookupEnv("DATAPUB_" + flag.Name); ok {
			values[flag.Name] = env
		}
	})
	return values
}

func flagValues(flags *pflag.FlagSet) map[string]interface{} {
	values := map[string]interface{}{}
	flags.Visit(func(flag *pflag.Flag) {
		if sliceValue, ok := flag.Value.(pflag.SliceValue); ok {
			values[flag.Name] = sliceValue.GetSlice()
			return
		}
		values[flag.Name] = flag.Value.String()
	})
	return values
}
