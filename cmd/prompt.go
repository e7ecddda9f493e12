package cmd

import (
	"fmt"
	"io"

	"github.com/AlecAivazis/survey/v2"
	"github.com/pkg/errors"

	"github.com/datapub/datapub/pkg/cloudrun"
)

// Asker matches the signature of survey.AskOne so prompts can be stubbed in
// tests.
type Asker func(p survey.Prompt, response interface{}, opts ...survey.AskOpt) error

// promptForServiceName lists the services already deployed to the project and
// asks for the name to deploy under.
func promptForServiceName(services []cloudrun.Service, ask Asker, out io.Writer) (string, error) {
	fmt.Fprintln(out, "Please provide a service name for this deployment")
	fmt.Fprintln(out)
	if len(services) > 0 {
		fmt.Fprintln(out, "Using an existing service name will over-write it")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "Your existing services:")
		fmt.Fprintln(out)
		for _, service := range services {
			fmt.Fprintf(out, "  %s - created %s - %s\n", service.Name, service.Created, service.URL)
		}
		fmt.Fprintln(out)
	}

	var name string
	if err := ask(&survey.Input{Message: "Service name"}, &name, survey.WithValidator(survey.Required)); err != nil {
		return "", errors.Wrap(err, "failed to read the service name")
	}
	return name, nil
}
