package cloudrun

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/datapub/datapub/pkg/mock"
)

func TestExistingServices(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		utils := newCloudrunMockUtils()
		utils.StdoutReturn = map[string]string{
			"gcloud run services list --platform=managed --format json": `[
  {
    "metadata": {"name": "existing", "creationTimestamp": "2019-01-01"},
    "status": {"address": {"url": "http://www.example.com/"}}
  }
]`,
		}

		services, err := ExistingServices(utils)

		assert.NoError(t, err)
		assert.Equal(t, []Service{{Name: "existing", Created: "2019-01-01", URL: "http://www.example.com/"}}, services)
		assert.Equal(t, []mock.ExecCall{
			{Exec: "gcloud", Params: []string{"run", "services", "list", "--platform=managed", "--format", "json"}},
		}, utils.Calls)
	})

	t.Run("no services deployed", func(t *testing.T) {
		utils := newCloudrunMockUtils()

		services, err := ExistingServices(utils)

		assert.NoError(t, err)
		assert.Empty(t, services)
	})

	t.Run("gcloud failure", func(t *testing.T) {
		utils := newCloudrunMockUtils()
		utils.ShouldFailOnCommand = map[string]error{"gcloud run services list.*": fmt.Errorf("no account")}

		_, err := ExistingServices(utils)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to list existing services")
	})

	t.Run("broken gcloud output", func(t *testing.T) {
		utils := newCloudrunMockUtils()
		utils.StdoutReturn = map[string]string{"gcloud run services list.*": "not json"}

		_, err := ExistingServices(utils)

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to parse the service list")
	})
}
