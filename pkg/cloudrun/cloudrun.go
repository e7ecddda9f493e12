package cloudrun

import (
	"bytes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pkg/errors"

	"github.com/datapub/datapub/pkg/clierr"
	"github.com/datapub/datapub/pkg/command"
	"github.com/datapub/datapub/pkg/log"
	"github.com/datapub/datapub/pkg/pubutils"
)

// image name used for the build tag, the project part comes from the gcloud configuration
const imageName = "datasette"

// PluginSecret describes one credential which is injected into the container
// as an environment variable and referenced indirectly from the metadata.
type PluginSecret struct {
	Plugin string
	Key    string
	Value  string
}

var nonEnvRune = regexp.MustCompile(`[^A-Z0-9]`)

// EnvName returns the name of the environment variable carrying the secret,
// e.g. DATASETTE_AUTH_GITHUB_CLIENT_ID for plugin datasette-auth-github, key client_id.
func (s PluginSecret) EnvName() string {
	return nonEnvRune.ReplaceAllString(strings.ToUpper(s.Plugin+"_"+s.Key), "_")
}

// ParsePluginSecrets splits raw --plugin-secret values into their
// plugin name, key and value parts.
func ParsePluginSecrets(values []string) ([]PluginSecret, error) {
	secrets := make([]PluginSecret, 0, len(values))
	for _, value := range values {
		fields := strings.Fields(value)
		if len(fields) != 3 {
			log.SetErrorCategory(log.ErrorConfiguration)
			return nil, clierr.Newf(2, "plugin secret '%v' must consist of plugin name, key and value", value)
		}
		secrets = append(secrets, PluginSecret{Plugin: fields[0], Key: fields[1], Value: fields[2]})
	}
	return secrets, nil
}

// Options describes one publication to Cloud Run.
type Options struct {
	Files         []string
	Service       string
	Memory        string
	Metadata      string
	PluginSecrets []PluginSecret
	Secret        string
	ShowFiles     bool
	AptGetInstall []string
	Spatialite    bool
	ExtraOptions  string
	// ExtraOptionsGiven distinguishes an explicitly empty --extra-options
	// value from an absent flag, only the former gets the HTTPS default.
	ExtraOptionsGiven bool
	Install           []string
	Branch            string
	Title             string
	License           string
	LicenseURL        string
	Source            string
	SourceURL         string
	About             string
	AboutURL          string
	VersionNote       string
}

var memoryPattern = regexp.MustCompile(`^[0-9]+(Mi|Gi|G)$`)

// Validate checks the argument-level preconditions: every database file must
// exist and the memory size must consist of an integer and a valid unit.
func (o Options) Validate(utils pubutils.FileUtils) error {
	for _, file := range o.Files {
		exists, err := utils.FileExists(file)
		if err != nil {
			return errors.Wrapf(err, "failed to check file '%v'", file)
		}
		if !exists {
			log.SetErrorCategory(log.ErrorConfiguration)
			return clierr.Newf(2, "Path '%v' does not exist", file)
		}
	}
	if len(o.Memory) > 0 && !memoryPattern.MatchString(o.Memory) {
		log.SetErrorCategory(log.ErrorConfiguration)
		return clierr.Newf(2, "memory '%v' does not match the required <integer>(Mi|Gi|G) pattern", o.Memory)
	}
	return nil
}

// Utils provides the external interactions of a publication, so tests can
// intercept process execution and file handling.
type Utils interface {
	command.ExecRunner
	pubutils.FileUtils

	LookPath(file string) (string, error)
}

type utilsBundle struct {
	*command.Command
	pubutils.Files
}

func (u *utilsBundle) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

// NewUtils creates the default utils bundle with gcloud output rerouted
// to the logging framework.
func NewUtils() Utils {
	utils := utilsBundle{
		Command: &command.Command{
			ErrorCategoryMapping: map[string][]string{
				log.ErrorConfiguration.String(): {
					"*You do not currently have an active account selected*",
					"*does not have permission to access*",
				},
				log.ErrorInfrastructure.String(): {
					"*Deployment failed*",
				},
			},
		},
	}
	utils.Stdout(log.Writer())
	utils.Stderr(log.Writer())
	return &utils
}

// CheckGcloud verifies that the gcloud CLI is available on the PATH.
func CheckGcloud(utils Utils) error {
	if _, err := utils.LookPath("gcloud"); err != nil {
		log.SetErrorCategory(log.ErrorInfrastructure)
		return clierr.New(1, "Publishing to Google Cloud requires gcloud to be installed and configured")
	}
	return nil
}

// GenerateSecret produces the DATASETTE_SECRET value used when none is provided.
var GenerateSecret = func() string {
	b := make([]byte, 32)
	rand.Read(b)
	return hex.EncodeToString(b)
}

// Run assembles the build directory and performs the container build and the
// deployment by calling out to gcloud.
func Run(options Options, utils Utils, stdout io.Writer) error {
	buildDir, err := utils.TempDir("", "datapub-cloudrun")
	if err != nil {
		return errors.Wrap(err, "failed to create build directory")
	}
	defer utils.RemoveAll(buildDir)

	for _, file := range options.Files {
		if _, err := utils.Copy(file, filepath.Join(buildDir, filepath.Base(file))); err != nil {
			return errors.Wrapf(err, "failed to copy database '%v' into the build directory", file)
		}
	}

	metadataJSON, err := BuildMetadata(options, utils)
	if err != nil {
		return err
	}

	if len(options.Secret) == 0 {
		options.Secret = GenerateSecret()
	}

	dockerfile, err := RenderDockerfile(options, len(metadataJSON) > 0)
	if err != nil {
		return err
	}

	if len(metadataJSON) > 0 {
		if err := utils.FileWrite(filepath.Join(buildDir, "metadata.json"), metadataJSON, 0666); err != nil {
			return errors.Wrap(err, "failed to write metadata.json")
		}
	}
	if err := utils.FileWrite(filepath.Join(buildDir, "Dockerfile"), []byte(dockerfile), 0666); err != nil {
		return errors.Wrap(err, "failed to write Dockerfile")
	}

	if options.ShowFiles {
		if len(metadataJSON) > 0 {
			fmt.Fprintf(stdout, "=== metadata.json ===\n%s\n", string(metadataJSON))
		}
		fmt.Fprintf(stdout, "==== Dockerfile ====\n%s\n====================\n", dockerfile)
	}

	project, err := gcloudProject(utils)
	if err != nil {
		return err
	}
	tag := fmt.Sprintf("gcr.io/%s/%s", project, imageName)

	utils.SetDir(buildDir)
	if err := utils.RunExecutable("gcloud", "builds", "submit", "--tag", tag); err != nil {
		log.SetErrorCategory(log.ErrorBuild)
		return errors.Wrap(err, "container image build failed")
	}

	deployParams := []string{"run", "deploy", "--allow-unauthenticated", "--platform=managed", "--image", tag, options.Service}
	if len(options.Memory) > 0 {
		deployParams = append(deployParams, "--memory", options.Memory)
	}
	if err := utils.RunExecutable("gcloud", deployParams...); err != nil {
		log.SetErrorCategory(log.ErrorService)
		return errors.Wrapf(err, "deployment of service '%v' failed", options.Service)
	}
	return nil
}

func gcloudProject(utils Utils) (string, error) {
	var buf bytes.Buffer
	utils.Stdout(&buf)
	defer utils.Stdout(log.Writer())

	if err := utils.RunExecutable("gcloud", "config", "get-value", "project"); err != nil {
		return "", errors.Wrap(err, "failed to determine the Google Cloud project")
	}

	project := strings.TrimSpace(buf.String())
	if len(project) == 0 {
		log.SetErrorCategory(log.ErrorConfiguration)
		return "", errors.New("no Google Cloud project is configured, run 'gcloud config set project' first")
	}
	return project, nil
}
