package cloudrun

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/datapub/datapub/pkg/log"
)

// Service describes an already deployed Cloud Run service.
type Service struct {
	Name    string
	Created string
	URL     string
}

// ExistingServices returns the services which are already deployed in the
// configured project, as reported by gcloud.
func ExistingServices(utils Utils) ([]Service, error) {
	var buf bytes.Buffer
	utils.Stdout(&buf)
	defer utils.Stdout(log.Writer())

	if err := utils.RunExecutable("gcloud", "run", "services", "list", "--platform=managed", "--format", "json"); err != nil {
		return nil, errors.Wrap(err, "failed to list existing services")
	}

	out := bytes.TrimSpace(buf.Bytes())
	if len(out) == 0 {
		return nil, nil
	}

	var raw []struct {
		Metadata struct {
			Name              string `json:"name"`
			CreationTimestamp string `json:"creationTimestamp"`
		} `json:"metadata"`
		Status struct {
			Address struct {
				URL string `json:"url"`
			} `json:"address"`
		} `json:"status"`
	}
	if err := json.Unmarshal(out, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse the service list")
	}

	services := make([]Service, 0, len(raw))
	for _, entry := range raw {
		services = append(services, Service{
			Name:    entry.Metadata.Name,
			Created: entry.Metadata.CreationTimestamp,
			URL:     entry.Status.Address.URL,
		})
	}
	return services, nil
}
