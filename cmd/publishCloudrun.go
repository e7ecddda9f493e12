package cmd

import (
	"io"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"

	"github.com/datapub/datapub/pkg/cloudrun"
	"github.com/datapub/datapub/pkg/config"
	"github.com/datapub/datapub/pkg/log"
)

type publishCloudrunOptions struct {
	Service       string   `json:"service,omitempty"`
	Memory        string   `json:"memory,omitempty"`
	Metadata      string   `json:"metadata,omitempty"`
	PluginSecret  []string `json:"plugin-secret,omitempty"`
	Secret        string   `json:"secret,omitempty"`
	ShowFiles     bool     `json:"show-files,omitempty"`
	AptGetInstall []string `json:"apt-get-install,omitempty"`
	Spatialite    bool     `json:"spatialite,omitempty"`
	ExtraOptions  string   `json:"extra-options,omitempty"`
	// set from the flag state in RunE, an explicitly empty --extra-options
	// still triggers the force_https_urls default
	ExtraOptionsGiven bool     `json:"-"`
	Install           []string `json:"install,omitempty"`
	Branch            string   `json:"branch,omitempty"`
	Title             string   `json:"title,omitempty"`
	License           string   `json:"license,omitempty"`
	LicenseURL        string   `json:"license_url,omitempty"`
	Source            string   `json:"source,omitempty"`
	SourceURL         string   `json:"source_url,omitempty"`
	About             string   `json:"about,omitempty"`
	AboutURL          string   `json:"about_url,omitempty"`
	VersionNote       string   `json:"version-note,omitempty"`
}

// PublishCloudrunCommand Publishes SQLite databases to Google Cloud Run
func PublishCloudrunCommand() *cobra.Command {
	const stepName = "publishCloudrun"
	var stepConfig publishCloudrunOptions

	var createPublishCloudrunCmd = &cobra.Command{
		Use:   "cloudrun <database-file>...",
		Short: "Publishes SQLite databases to Google Cloud Run",
		Long: `Packages the given SQLite database files together with the Datasette web
application into a container image, builds the image remotely via Cloud Build
and deploys the result as a Cloud Run service. Requires the gcloud CLI to be
installed and authenticated against the target project.`,
		Args: cobra.MinimumNArgs(1),
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			initStepLogging(stepName)
			return PrepareConfig(cmd, stepName, &stepConfig, config.OpenFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			stepConfig.ExtraOptionsGiven = cmd.Flags().Changed("extra-options")
			return publishCloudrun(stepConfig, args, cmd.OutOrStdout())
		},
	}

	addPublishCloudrunFlags(createPublishCloudrunCmd, &stepConfig)
	return createPublishCloudrunCmd
}

func addPublishCloudrunFlags(cmd *cobra.Command, stepConfig *publishCloudrunOptions) {
	cmd.Flags().StringVar(&stepConfig.Service, "service", os.Getenv("DATAPUB_service"), "Name of the Cloud Run service, prompted for interactively when empty")
	cmd.Flags().StringVar(&stepConfig.Memory, "memory", os.Getenv("DATAPUB_memory"), "Memory to allocate in Cloud Run, e.g. 1Gi")
	cmd.Flags().StringVarP(&stepConfig.Metadata, "metadata", "m", os.Getenv("DATAPUB_metadata"), "Path to a JSON or YAML file containing the metadata to publish")
	cmd.Flags().StringArrayVar(&stepConfig.PluginSecret, "plugin-secret", nil, "Secret to pass to a plugin, quoted as \"<plugin> <key> <value>\", can be set multiple times")
	cmd.Flags().StringVar(&stepConfig.Secret, "secret", os.Getenv("DATAPUB_secret"), "Secret used for signing secure values such as signed cookies, generated when empty")
	cmd.Flags().BoolVar(&stepConfig.ShowFiles, "show-files", false, "Output the generated Dockerfile and metadata.json")
	cmd.Flags().StringArrayVar(&stepConfig.AptGetInstall, "apt-get-install", nil, "Additional OS package to apt-get install in the image, can be set multiple times")
	cmd.Flags().BoolVar(&stepConfig.Spatialite, "spatialite", false, "Enable the SpatiaLite extension")
	cmd.Flags().StringVar(&stepConfig.ExtraOptions, "extra-options", os.Getenv("DATAPUB_extra-options"), "Extra options to pass to datasette serve")
	cmd.Flags().StringArrayVar(&stepConfig.Install, "install", nil, "Additional python package, e.g. a plugin, to install in the image, can be set multiple times")
	cmd.Flags().StringVar(&stepConfig.Branch, "branch", "", "Install datasette from a GitHub branch, e.g. main, instead of the release")
	cmd.Flags().StringVar(&stepConfig.Title, "title", "", "Title for the metadata")
	cmd.Flags().StringVar(&stepConfig.License, "license", "", "License label for the metadata")
	cmd.Flags().StringVar(&stepConfig.LicenseURL, "license_url", "", "License URL for the metadata")
	cmd.Flags().StringVar(&stepConfig.Source, "source", "", "Source label for the metadata")
	cmd.Flags().StringVar(&stepConfig.SourceURL, "source_url", "", "Source URL for the metadata")
	cmd.Flags().StringVar(&stepConfig.About, "about", "", "About label for the metadata")
	cmd.Flags().StringVar(&stepConfig.AboutURL, "about_url", "", "About URL for the metadata")
	cmd.Flags().StringVar(&stepConfig.VersionNote, "version-note", "", "Additional note to show on /-/versions")
}

func publishCloudrun(stepConfig publishCloudrunOptions, args []string, stdout io.Writer) error {
	utils := cloudrun.NewUtils()

	err := runPublishCloudrun(&stepConfig, args, utils, survey.AskOne, stdout)
	if err != nil {
		log.Entry().WithError(err).Error("step execution failed")
	}
	return err
}

func runPublishCloudrun(stepConfig *publishCloudrunOptions, args []string, utils cloudrun.Utils, ask Asker, stdout io.Writer) error {
	pluginSecrets, err := cloudrun.ParsePluginSecrets(stepConfig.PluginSecret)
	if err != nil {
		return err
	}

	options := cloudrun.Options{
		Files:             args,
		Service:           stepConfig.Service,
		Memory:            stepConfig.Memory,
		Metadata:          stepConfig.Metadata,
		PluginSecrets:     pluginSecrets,
		Secret:            stepConfig.Secret,
		ShowFiles:         stepConfig.ShowFiles,
		AptGetInstall:     stepConfig.AptGetInstall,
		Spatialite:        stepConfig.Spatialite,
		ExtraOptions:      stepConfig.ExtraOptions,
		ExtraOptionsGiven: stepConfig.ExtraOptionsGiven || len(stepConfig.ExtraOptions) > 0,
		Install:           stepConfig.Install,
		Branch:            stepConfig.Branch,
		Title:             stepConfig.Title,
		License:           stepConfig.License,
		LicenseURL:        stepConfig.LicenseURL,
		Source:            stepConfig.Source,
		SourceURL:         stepConfig.SourceURL,
		About:             stepConfig.About,
		AboutURL:          stepConfig.AboutURL,
		VersionNote:       stepConfig.VersionNote,
	}

	if err := options.Validate(utils); err != nil {
		return err
	}
	if err := cloudrun.CheckGcloud(utils); err != nil {
		return err
	}

	if len(options.Service) == 0 {
		services, err := cloudrun.ExistingServices(utils)
		if err != nil {
			log.Entry().WithError(err).Warning("failed to list the existing services")
		}
		options.Service, err = promptForServiceName(services, ask, stdout)
		if err != nil {
			return err
		}
	}

	return cloudrun.Run(options, utils, stdout)
}
