package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ssargent/gamehdr/pkg/codec"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogWriter(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "log_writer_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "headers.log")

	writer, err := NewLogWriter(LogWriterConfig{
		FilePath:      filePath,
		FsyncInterval: 0,
		BufferSize:    4096,
	})
	require.NoError(t, err)
	assert.NotNil(t, writer)

	assert.FileExists(t, filePath)
	assert.Equal(t, int64(0), writer.Size())
	assert.Equal(t, filePath, writer.Path())

	assert.NoError(t, writer.Close())
}

func TestNewLogWriter_DirectoryCreation(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "log_writer_dir_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	nestedDir := filepath.Join(tmpDir, "nested", "deep", "path")

	writer, err := NewLogWriter(LogWriterConfig{
		FilePath: filepath.Join(nestedDir, "headers.log"),
	})
	require.NoError(t, err)
	defer writer.Close()

	assert.DirExists(t, nestedDir)
}

func TestNewLogWriter_InvalidPath(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "log_writer_invalid_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	// A regular file where a directory is expected
	blocker := filepath.Join(tmpDir, "blocker")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0600))

	writer, err := NewLogWriter(LogWriterConfig{
		FilePath: filepath.Join(blocker, "headers.log"),
	})
	assert.Error(t, err)
	assert.Nil(t, writer)
}

func TestLogWriter_Append(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "log_writer_append_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "headers.log")

	writer, err := NewLogWriter(LogWriterConfig{FilePath: filePath})
	require.NoError(t, err)

	headers := []codec.Header{
		{Mode: codec.Rated, Speed: codec.Correspondence, Games: 15},
		{Mode: codec.Casual, Speed: codec.Blitz, Games: 3},
		{Mode: codec.Rated, Speed: codec.Ultrabullet, Games: 0},
	}

	for i, h := range headers {
		offset, err := writer.Append(h)
		require.NoError(t, err)
		assert.Equal(t, int64(i), offset)
	}
	assert.Equal(t, int64(len(headers)), writer.Size())
	require.NoError(t, writer.Close())

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xFB, 0x34, 0x01}, data)
}

func TestLogWriter_AppendInvalidHeader(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "log_writer_invalid_header_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	writer, err := NewLogWriter(LogWriterConfig{FilePath: filepath.Join(tmpDir, "headers.log")})
	require.NoError(t, err)
	defer writer.Close()

	_, err = writer.Append(codec.Header{Mode: codec.Rated, Speed: codec.Blitz, Games: 16})
	assert.ErrorIs(t, err, codec.ErrGamesOutOfRange)
	assert.Equal(t, int64(0), writer.Size())
}

func TestLogWriter_ReopenAppends(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "log_writer_reopen_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "headers.log")
	h := codec.Header{Mode: codec.Rated, Speed: codec.Rapid, Games: 4}

	writer, err := NewLogWriter(LogWriterConfig{FilePath: filePath})
	require.NoError(t, err)
	_, err = writer.Append(h)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	writer, err = NewLogWriter(LogWriterConfig{FilePath: filePath})
	require.NoError(t, err)
	assert.Equal(t, int64(1), writer.Size())

	offset, err := writer.Append(h)
	require.NoError(t, err)
	assert.Equal(t, int64(1), offset)
	require.NoError(t, writer.Close())

	info, err := os.Stat(filePath)
	require.NoError(t, err)
	assert.Equal(t, int64(2), info.Size())
}

func TestLogWriter_FsyncInterval(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "log_writer_fsync_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "headers.log")

	writer, err := NewLogWriter(LogWriterConfig{
		FilePath:      filePath,
		FsyncInterval: 50 * time.Millisecond,
		BufferSize:    4096,
	})
	require.NoError(t, err)
	defer writer.Close()

	_, err = writer.Append(codec.Header{Mode: codec.Casual, Speed: codec.Bullet, Games: 2})
	require.NoError(t, err)

	// Buffered until the timer fires
	assert.Equal(t, int64(1), writer.Size())

	assert.Eventually(t, func() bool {
		info, err := os.Stat(filePath)
		return err == nil && info.Size() == 1
	}, time.Second, 10*time.Millisecond)
}

func TestLogWriter_Sync(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "log_writer_sync_test")
	require.NoError(t, err)
	defer os.RemoveAll(tmpDir)

	filePath := filepath.Join(tmpDir, "headers.log")

	writer, err := NewLogWriter(LogWriterConfig{
		FilePath:      filePath,
		FsyncInterval: time.Hour,
	})
	require.NoError(t, err)
	defer writer.Close()

	_, err = writer.Append(codec.Header{Mode: codec.Rated, Speed: codec.Classical, Games: 9})
	require.NoError(t, err)
	require.NoError(t, writer.Sync())

	data, err := os.ReadFile(filePath)
	require.NoError(t, err)
	assert.Equal(t, []byte{0b1001_1001}, data)
}
