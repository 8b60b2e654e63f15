package i18n

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createTestFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

func TestNewTranslations(t *testing.T) {
	t.Run("should load bundled locales without a directory", func(t *testing.T) {
		// Act
		trans, err := NewTranslations("en", "")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Compare every fork of a repository with the original", trans.GetMessage("forks.usage", 0, nil))
	})

	t.Run("should fail with empty language", func(t *testing.T) {
		// Act
		trans, err := NewTranslations("", t.TempDir())

		// Assert
		assert.Error(t, err)
		assert.Nil(t, trans)
	})

	t.Run("should let directory files override bundled messages", func(t *testing.T) {
		// Arrange
		dir := t.TempDir()
		createTestFile(t, dir, "active.en.toml", `
[forks.usage]
other = "Custom usage"
`)

		// Act
		trans, err := NewTranslations("en", dir)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Custom usage", trans.GetMessage("forks.usage", 0, nil))
	})

	t.Run("should fail with invalid TOML", func(t *testing.T) {
		// Arrange
		dir := t.TempDir()
		createTestFile(t, dir, "active.es.toml", "[InvalidSection\nthis is not valid TOML")

		// Act
		trans, err := NewTranslations("es", dir)

		// Assert
		assert.ErrorContains(t, err, "error loading locale file")
		assert.Nil(t, trans)
	})

	t.Run("should ignore a directory without locale files", func(t *testing.T) {
		// Act
		trans, err := NewTranslations("es", t.TempDir())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Compara cada fork de un repositorio con el original", trans.GetMessage("forks.usage", 0, nil))
	})
}

func TestSetLanguage(t *testing.T) {
	t.Run("should switch to a bundled language", func(t *testing.T) {
		// Arrange
		trans, err := NewTranslations("en", "")
		require.NoError(t, err)

		// Act
		err = trans.SetLanguage("es")

		// Assert
		require.NoError(t, err)
		assert.Equal(t, "Compara cada fork de un repositorio con el original", trans.GetMessage("forks.usage", 0, nil))
	})

	t.Run("should fail with unsupported language", func(t *testing.T) {
		// Arrange
		trans, err := NewTranslations("es", "")
		require.NoError(t, err)

		// Act
		err = trans.SetLanguage("fr")

		// Assert
		assert.Error(t, err)
	})
}

func TestGetMessage(t *testing.T) {
	dir := t.TempDir()
	createTestFile(t, dir, "active.es.toml", `
[Welcome]
one = "Bienvenido"
other = "Bienvenidos"

[HelloName]
other = "¡Hola {{.Name}}!"
`)
	trans, err := NewTranslations("es", dir)
	require.NoError(t, err)

	t.Run("should get singular message", func(t *testing.T) {
		assert.Equal(t, "Bienvenido", trans.GetMessage("Welcome", 1, nil))
	})

	t.Run("should get plural message", func(t *testing.T) {
		assert.Equal(t, "Bienvenidos", trans.GetMessage("Welcome", 2, nil))
	})

	t.Run("should render template data", func(t *testing.T) {
		assert.Equal(t, "¡Hola Juan!", trans.GetMessage("HelloName", 0, map[string]interface{}{"Name": "Juan"}))
	})

	t.Run("should report missing messages", func(t *testing.T) {
		assert.Equal(t, "Translation missing: NonExistent", trans.GetMessage("NonExistent", 1, nil))
	})
}

func TestBundledLocalesAreComplete(t *testing.T) {
	en, err := NewTranslations("en", "")
	require.NoError(t, err)
	es, err := NewTranslations("es", "")
	require.NoError(t, err)

	ids := []string{
		"app_usage", "forks.usage", "forks.progress", "forks.summary", "forks.cancelled", "forks.rate_limited",
		"quota.usage", "quota.label", "cache.usage", "cache.cleaned",
		"config.usage", "config.set_success", "ui_error.try_suggestion",
	}
	for _, id := range ids {
		assert.NotContains(t, en.GetMessage(id, 0, nil), "Translation missing", id)
		assert.NotContains(t, es.GetMessage(id, 0, nil), "Translation missing", id)
	}
}

func TestForksHelpDescribesDeduplication(t *testing.T) {
	en, err := NewTranslations("en", "")
	require.NoError(t, err)

	help := en.GetMessage("forks.long_description", 0, nil)

	assert.Contains(t, help, "by size and by last push date")
	assert.Contains(t, help, "approximation")
	assert.NotContains(t, help, "default branch and")
}

func TestRateLimitedMessagePlurals(t *testing.T) {
	en, err := NewTranslations("en", "")
	require.NoError(t, err)

	assert.Equal(t, "The API rate limit was exceeded, 1 fork was not compared and shows 0",
		en.GetMessage("forks.rate_limited", 1, map[string]interface{}{"Count": 1}))
	assert.Equal(t, "The API rate limit was exceeded, 3 forks were not compared and show 0",
		en.GetMessage("forks.rate_limited", 3, map[string]interface{}{"Count": 3}))
}
