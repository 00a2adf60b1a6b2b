package common

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

var (
	// ErrArtifactNotFound is returned when an artifact file does not exist
	ErrArtifactNotFound = errors.New("artifact not found")
	// ErrMalformedArtifact is returned when an artifact cannot be decoded
	ErrMalformedArtifact = errors.New("malformed artifact")
)

// WriteFileAtomic replaces path with data in one rename, creating the parent directory if needed
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("failed to chmod %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename into %s: %w", path, err)
	}
	return nil
}

// WriteArtifact serializes src and stores it at path
func WriteArtifact(path string, src io.WriterTo) error {
	var buf bytes.Buffer
	if _, err := src.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to serialize %s: %w", path, err)
	}
	return WriteFileAtomic(path, buf.Bytes())
}

// ReadArtifact loads the whole file at path. A missing file is reported as
// ErrArtifactNotFound, with fs.ErrNotExist kept in the chain.
func ReadArtifact(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s: %w", ErrArtifactNotFound, path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}

// FileExists reports whether path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
