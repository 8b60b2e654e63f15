package quota

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/thomas-vilte/forkdiff/internal/config"
	domainErrors "github.com/thomas-vilte/forkdiff/internal/errors"
	"github.com/thomas-vilte/forkdiff/internal/i18n"
	"github.com/urfave/cli/v3"
)

func runQuota(t *testing.T, handler http.HandlerFunc) (string, error) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	translations, err := i18n.NewTranslations("en", "")
	require.NoError(t, err)
	cfg := config.Default()
	cfg.APIBaseURL = server.URL

	var out bytes.Buffer
	app := &cli.Command{
		Name:     "forkdiff",
		Writer:   &out,
		Commands: []*cli.Command{NewQuotaCommandFactory().CreateCommand(translations, cfg)},
	}
	err = app.Run(context.Background(), []string{"forkdiff", "quota"})
	return out.String(), err
}

func TestQuotaCommand(t *testing.T) {
	t.Run("should print the remaining quota", func(t *testing.T) {
		// Arrange
		reset := time.Now().Add(30 * time.Minute).Unix()

		// Act
		out, err := runQuota(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/rate_limit", r.URL.Path)
			fmt.Fprintf(w, `{"resources":{"core":{"limit":60,"remaining":42,"reset":%d}}}`, reset)
		})

		// Assert
		require.NoError(t, err)
		assert.Contains(t, out, "API quota: left 42 / 60, reset in")
	})

	t.Run("should report an invalid token", func(t *testing.T) {
		_, err := runQuota(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			fmt.Fprint(w, `{"message":"Bad credentials"}`)
		})

		assert.ErrorIs(t, err, domainErrors.ErrGitHubTokenInvalid)
	})
}
