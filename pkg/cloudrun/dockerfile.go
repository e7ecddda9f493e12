package cloudrun

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/datapub/datapub/pkg/pubutils"
)

// module path of the spatialite extension inside the python base image
const spatialiteModulePath = "/usr/lib/x86_64-linux-gnu/mod_spatialite.so"

// build dependencies required to load spatialite into datasette
var spatialiteAptPackages = []string{"python3-dev", "gcc", "libsqlite3-mod-spatialite"}

const dockerfileTemplate = `FROM python:3.8
COPY . /app
WORKDIR /app
{{ .AptGetExtras }}
{{ .EnvironmentVariables }}
RUN pip install -U {{ .InstallFrom }}
RUN datasette inspect {{ join " " .FileNames }} --inspect-file inspect-data.json
ENV PORT 8001
EXPOSE 8001
CMD {{ .Cmd }}`

type dockerfileData struct {
	AptGetExtras         string
	EnvironmentVariables string
	InstallFrom          string
	FileNames            []string
	Cmd                  string
}

// RenderDockerfile produces the Dockerfile for the publication.
// includeMetadata controls whether the serve command references metadata.json.
func RenderDockerfile(options Options, includeMetadata bool) (string, error) {
	data := dockerfileData{
		AptGetExtras:         aptGetExtras(options),
		EnvironmentVariables: environmentVariables(options),
		InstallFrom:          strings.Join(installFrom(options), " "),
		FileNames:            fileNames(options),
		Cmd:                  serveCommand(options, includeMetadata),
	}
	return pubutils.ExecuteTemplate(dockerfileTemplate, data)
}

func fileNames(options Options) []string {
	names := make([]string, 0, len(options.Files))
	for _, file := range options.Files {
		names = append(names, filepath.Base(file))
	}
	return names
}

func aptGetExtras(options Options) string {
	packages := append([]string{}, options.AptGetInstall...)
	if options.Spatialite {
		packages = append(packages, spatialiteAptPackages...)
	}
	if len(packages) == 0 {
		return ""
	}
	// leading and trailing linebreaks keep the block separated in the rendered file
	return fmt.Sprintf("\nRUN apt-get update && \\\n    apt-get install -y %s && \\\n    rm -rf /var/lib/apt/lists/*\n",
		strings.Join(packages, " "))
}

func environmentVariables(options Options) string {
	lines := []string{}
	for _, secret := range options.PluginSecrets {
		lines = append(lines, fmt.Sprintf("ENV %s '%s'", secret.EnvName(), secret.Value))
	}
	lines = append(lines, fmt.Sprintf("ENV DATASETTE_SECRET '%s'", options.Secret))
	if options.Spatialite {
		lines = append(lines, fmt.Sprintf("ENV SQLITE_EXTENSIONS '%s'", spatialiteModulePath))
	}
	return strings.Join(lines, "\n")
}

func installFrom(options Options) []string {
	datasette := "datasette"
	if len(options.Branch) > 0 {
		datasette = fmt.Sprintf("https://github.com/simonw/datasette/archive/%s.zip", options.Branch)
	}
	return append([]string{datasette}, options.Install...)
}

func serveCommand(options Options, includeMetadata bool) string {
	cmd := []string{"datasette", "serve", "--host", "0.0.0.0"}
	for _, name := range fileNames(options) {
		cmd = append(cmd, "-i", name)
	}
	cmd = append(cmd, "--cors", "--inspect-file", "inspect-data.json")
	if includeMetadata {
		cmd = append(cmd, "--metadata", "metadata.json")
	}
	cmd = append(cmd, extraOptions(options)...)
	cmd = append(cmd, "--port", "$PORT")
	return strings.Join(cmd, " ")
}

// extraOptions returns the user-supplied serve options, forcing HTTPS URLs
// unless the user took over that setting. Without the --extra-options flag
// the serve command stays untouched.
func extraOptions(options Options) []string {
	if !options.ExtraOptionsGiven {
		return nil
	}
	opts := strings.Fields(options.ExtraOptions)
	if !pubutils.ContainsStringPart(opts, "force_https_urls") {
		opts = append(opts, "--setting", "force_https_urls", "on")
	}
	return opts
}
