package cloudrun

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderDockerfile(t *testing.T) {
	t.Run("plugin secrets", func(t *testing.T) {
		options := Options{
			Files:  []string{"test.db"},
			Secret: "x-secret",
			PluginSecrets: []PluginSecret{
				{Plugin: "datasette-auth-github", Key: "client_id", Value: "x-client-id"},
			},
		}

		dockerfile, err := RenderDockerfile(options, true)

		assert.NoError(t, err)
		assert.Equal(t, `FROM python:3.8
COPY . /app
WORKDIR /app

ENV DATASETTE_AUTH_GITHUB_CLIENT_ID 'x-client-id'
ENV DATASETTE_SECRET 'x-secret'
RUN pip install -U datasette
RUN datasette inspect test.db --inspect-file inspect-data.json
ENV PORT 8001
EXPOSE 8001
CMD datasette serve --host 0.0.0.0 -i test.db --cors --inspect-file inspect-data.json --metadata metadata.json --port $PORT`, dockerfile)
	})

	t.Run("apt-get install with spatialite", func(t *testing.T) {
		options := Options{
			Files:         []string{"test.db"},
			Secret:        "x-secret",
			AptGetInstall: []string{"ripgrep"},
			Spatialite:    true,
		}

		dockerfile, err := RenderDockerfile(options, false)

		assert.NoError(t, err)
		assert.Equal(t, `FROM python:3.8
COPY . /app
WORKDIR /app

RUN apt-get update && \
    apt-get install -y ripgrep python3-dev gcc libsqlite3-mod-spatialite && \
    rm -rf /var/lib/apt/lists/*

ENV DATASETTE_SECRET 'x-secret'
ENV SQLITE_EXTENSIONS '/usr/lib/x86_64-linux-gnu/mod_spatialite.so'
RUN pip install -U datasette
RUN datasette inspect test.db --inspect-file inspect-data.json
ENV PORT 8001
EXPOSE 8001
CMD datasette serve --host 0.0.0.0 -i test.db --cors --inspect-file inspect-data.json --port $PORT`, dockerfile)
	})

	t.Run("multiple database files", func(t *testing.T) {
		options := Options{
			Files:  []string{"fixtures/first.db", "second.db"},
			Secret: "x-secret",
		}

		dockerfile, err := RenderDockerfile(options, false)

		assert.NoError(t, err)
		assert.Contains(t, dockerfile, "RUN datasette inspect first.db second.db --inspect-file inspect-data.json")
		assert.Contains(t, dockerfile, "-i first.db -i second.db --cors")
	})

	t.Run("install from branch with extra packages", func(t *testing.T) {
		options := Options{
			Files:   []string{"test.db"},
			Secret:  "x-secret",
			Branch:  "main",
			Install: []string{"datasette-vega"},
		}

		dockerfile, err := RenderDockerfile(options, false)

		assert.NoError(t, err)
		assert.Contains(t, dockerfile,
			"RUN pip install -U https://github.com/simonw/datasette/archive/main.zip datasette-vega")
	})
}

func TestExtraOptions(t *testing.T) {
	tt := []struct {
		name         string
		extraOptions string
		given        bool
		expected     string
	}{
		{"flag absent", "", false, ""},
		{"explicitly empty", "", true, "--setting force_https_urls on"},
		{"user options", "--setting base_url /foo", true, "--setting base_url /foo --setting force_https_urls on"},
		{"user overrides https", "--setting force_https_urls off", true, "--setting force_https_urls off"},
	}

	for _, test := range tt {
		t.Run(test.name, func(t *testing.T) {
			options := Options{Files: []string{"test.db"}, Secret: "x-secret",
				ExtraOptions: test.extraOptions, ExtraOptionsGiven: test.given}

			dockerfile, err := RenderDockerfile(options, false)
			assert.NoError(t, err)

			lines := strings.Split(dockerfile, "\n")
			lastLine := lines[len(lines)-1]
			got := strings.TrimSpace(strings.Split(strings.Split(lastLine, "--inspect-file inspect-data.json")[1], "--port")[0])
			assert.Equal(t, test.expected, got)
		})
	}
}
