package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("JEWEL_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "JEWEL_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "JEWEL_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "JEWEL_TEST_MISSING", "default"))
}

func TestGetBoolConfigValue(t *testing.T) {
	t.Setenv("JEWEL_TEST_BOOL", "")

	assert.True(t, getBoolConfigValue("true", "JEWEL_TEST_BOOL", false))
	assert.True(t, getBoolConfigValue("1", "JEWEL_TEST_BOOL", false))
	assert.True(t, getBoolConfigValue("YES", "JEWEL_TEST_BOOL", false))
	assert.False(t, getBoolConfigValue("false", "JEWEL_TEST_BOOL", true))
	assert.True(t, getBoolConfigValue("", "JEWEL_TEST_BOOL", true), "default used when unset")

	t.Setenv("JEWEL_TEST_BOOL", "no")
	assert.False(t, getBoolConfigValue("", "JEWEL_TEST_BOOL", true))
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/jewel-data", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "jewel-data"), got)

	got, err = expandPath("", "/default/path")
	require.NoError(t, err)
	assert.Equal(t, "/default/path", got)

	got, err = expandPath("/abs/path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	content := `# comment
JEWEL_TEST_FILE_A=hello
JEWEL_TEST_FILE_B="quoted value"

malformed line without equals
JEWEL_TEST_FILE_C = spaced =value
`
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0o600))

	t.Setenv("JEWEL_TEST_FILE_A", "")
	t.Setenv("JEWEL_TEST_FILE_B", "")
	t.Setenv("JEWEL_TEST_FILE_C", "")
	os.Unsetenv("JEWEL_TEST_FILE_A")
	os.Unsetenv("JEWEL_TEST_FILE_B")
	os.Unsetenv("JEWEL_TEST_FILE_C")

	require.NoError(t, loadEnvFile(envPath))

	assert.Equal(t, "hello", os.Getenv("JEWEL_TEST_FILE_A"))
	assert.Equal(t, "quoted value", os.Getenv("JEWEL_TEST_FILE_B"))
	assert.Equal(t, "spaced =value", os.Getenv("JEWEL_TEST_FILE_C"))
}

func TestLoadEnvFile_DoesNotOverrideExisting(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("JEWEL_TEST_EXISTING=from-file\n"), 0o600))

	t.Setenv("JEWEL_TEST_EXISTING", "from-process")

	require.NoError(t, loadEnvFile(envPath))
	assert.Equal(t, "from-process", os.Getenv("JEWEL_TEST_EXISTING"))
}

func TestLoadEnvFile_Missing(t *testing.T) {
	assert.Error(t, loadEnvFile(filepath.Join(t.TempDir(), "nope.env")))
}

func TestValidate(t *testing.T) {
	valid := &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{DataPath: "/tmp/jewel"},
		API:     APIConfig{BaseURL: "http://localhost:8080"},
	}
	assert.NoError(t, valid.Validate())

	invalidEnv := *valid
	invalidEnv.App.Environment = "testing"
	assert.Error(t, invalidEnv.Validate())

	invalidLevel := *valid
	invalidLevel.Logger.Level = "verbose"
	assert.Error(t, invalidLevel.Validate())

	missingURL := *valid
	missingURL.API.BaseURL = ""
	assert.Error(t, missingURL.Validate())
}
