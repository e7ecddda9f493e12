package pubutils

import (
	"testing"
	"text/template"

	"github.com/stretchr/testify/assert"
)

type imageCoordinates struct {
	Registry string
	Project  string
	Name     string
}

func TestExecuteTemplate(t *testing.T) {
	t.Run("test success", func(t *testing.T) {
		context := imageCoordinates{Registry: "gcr.io", Project: "myproject", Name: "datasette"}
		result, err := ExecuteTemplate("{{ .Registry }}/{{ .Project }}/{{ .Name }}", context)
		assert.NoError(t, err, "Didn't expect error but got one")
		assert.Equal(t, "gcr.io/myproject/datasette", result, "Expected different result")
	})

	t.Run("test sprig functions", func(t *testing.T) {
		context := map[string]interface{}{"packages": []string{"ripgrep", "gcc"}}
		result, err := ExecuteTemplate(`{{ join " " .packages }}`, context)
		assert.NoError(t, err, "Didn't expect error but got one")
		assert.Equal(t, "ripgrep gcc", result, "Expected different result")
	})

	t.Run("test template error", func(t *testing.T) {
		context := imageCoordinates{Registry: "gcr.io", Project: "myproject", Name: "datasette"}
		_, err := ExecuteTemplate("{{ $+++.+++Registry }}", context)
		assert.Error(t, err, "Expected error but got none")
	})

	t.Run("test custom functions", func(t *testing.T) {
		functions := template.FuncMap{
			"testFunc": reverse,
		}
		context := imageCoordinates{Registry: "gcr.io", Project: "myproject", Name: "datasette"}
		result, err := ExecuteTemplateFunctions("{{ testFunc .Name }}", functions, context)
		assert.NoError(t, err, "Didn't expect error but got one")
		assert.Equal(t, "ettesatad", result, "Expected different result")
	})
}

func reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
