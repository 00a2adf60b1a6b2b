package common_test

import (
	"bytes"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/mynextid/zk-sum/common"
	"github.com/stretchr/testify/require"
)

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "artifact.bin")

	require.NoError(t, common.WriteFileAtomic(path, []byte("first")))
	require.NoError(t, common.WriteFileAtomic(path, []byte("second")))

	data, err := common.ReadArtifact(path)
	require.NoError(t, err)
	require.Equal(t, []byte("second"), data)

	// no temp files are left behind
	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

func TestWriteArtifact(t *testing.T) {
	path := filepath.Join(t.TempDir(), "artifact.bin")

	require.NoError(t, common.WriteArtifact(path, bytes.NewBufferString("payload")))
	require.True(t, common.FileExists(path))

	data, err := common.ReadArtifact(path)
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)
}

func TestReadArtifactMissing(t *testing.T) {
	_, err := common.ReadArtifact(filepath.Join(t.TempDir(), "missing.bin"))
	require.ErrorIs(t, err, common.ErrArtifactNotFound)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := common.SetupLogger("info", "json", &buf)

	logger.Debug("hidden")
	logger.Info("shown", "program", "sum-1")

	require.NotContains(t, buf.String(), "hidden")
	require.Contains(t, buf.String(), `"program":"sum-1"`)
}
