package debug

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnableWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "debug.log")
	require.NoError(t, Enable(path))
	defer Disable()

	Log("clock", "tempo %.1f", 121.0)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Debug logging started")
	assert.Contains(t, string(data), "tempo 121.0")
	assert.Contains(t, string(data), "category=clock")
}

func TestLogEveryThrottles(t *testing.T) {
	hook := test.NewLocal(Logger())
	defer hook.Reset()
	prev := Logger().GetLevel()
	Logger().SetLevel(logrus.DebugLevel)
	defer Logger().SetLevel(prev)

	for i := 0; i < 10; i++ {
		LogEvery(4, "pulse", "throttle-test")
	}
	assert.Len(t, hook.AllEntries(), 2)
}

func TestSetLevel(t *testing.T) {
	prev := Logger().GetLevel()
	defer Logger().SetLevel(prev)

	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, logrus.WarnLevel, Logger().GetLevel())
	require.NoError(t, SetLevel(""))
	assert.Error(t, SetLevel("loud"))
}
