package debug

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetOutput_WritesJSONLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Logf("loaded %d repositories", 2)

	assert.Contains(t, buf.String(), `"level":"debug"`)
	assert.Contains(t, buf.String(), `"message":"loaded 2 repositories"`)
}

func TestSetup_CreatesLogFile(t *testing.T) {
	Enable()
	path := filepath.Join(t.TempDir(), "logs", "gitpick.log")

	closer, err := Setup(path)
	require.NoError(t, err)
	Logf("hello")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
}
