package cmd

import (
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/datapub/datapub/pkg/clierr"
	"github.com/datapub/datapub/pkg/log"
)

type generalConfigOptions struct {
	customConfig  string
	correlationID string
	verbose       bool
}

// GeneralConfig holds the flags which apply to every subcommand.
var GeneralConfig generalConfigOptions

var rootCmd = &cobra.Command{
	Use:   "datapub",
	Short: "Publishes SQLite databases as Datasette services",
	Long: `datapub packages SQLite database files together with the Datasette web
application into a container image and deploys the result to a cloud runtime.
The heavy lifting is delegated to the provider tooling, e.g. the gcloud CLI
for Google Cloud Run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute is the starting point of the datapub command line tool.
func Execute() {
	rootCmd.AddCommand(PublishCommand())

	addRootFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		// Fatal fires the registered hooks (error details file, Sentry)
		// and then exits with the error's own code.
		log.SetFatalExitCode(clierr.ExitCode(err))
		log.Entry().WithError(err).Fatal("execution failed")
	}
}

func addRootFlags(rootCmd *cobra.Command) {
	rootCmd.PersistentFlags().StringVar(&GeneralConfig.customConfig, "customConfig", ".datapub/config.yml", "Path to a custom configuration file")
	rootCmd.PersistentFlags().StringVar(&GeneralConfig.correlationID, "correlationID", uuid.NewString(), "ID for identifying a single run, e.g. a CI build URL")
	rootCmd.PersistentFlags().BoolVarP(&GeneralConfig.verbose, "verbose", "v", false, "verbose output")
}

// initStepLogging prepares the logging system for the given step, including
// the hooks which persist or forward fatal errors.
func initStepLogging(stepName string) {
	log.SetStepName(stepName)
	log.SetVerbose(GeneralConfig.verbose)
	log.RegisterHook(&log.FatalHook{CorrelationID: GeneralConfig.correlationID})
	if dsn := os.Getenv("DATAPUB_SENTRY_DSN"); len(dsn) > 0 {
		hook := log.NewSentryHook(dsn, GeneralConfig.correlationID)
		log.RegisterHook(&hook)
	}
}
