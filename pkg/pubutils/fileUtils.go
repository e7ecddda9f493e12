package pubutils

import (
	"io"
	"os"

	"github.com/pkg/errors"
)

// FileUtils defines the external file system interactions of the tool.
// It is implemented by Files and by the test mock.
type FileUtils interface {
	FileExists(filename string) (bool, error)
	FileRead(path string) ([]byte, error)
	FileWrite(path string, content []byte, perm os.FileMode) error
	Copy(src, dest string) (int64, error)
	TempDir(dir, pattern string) (string, error)
	RemoveAll(path string) error
}

// Files provides the default FileUtils implementation working on the real file system.
type Files struct{}

// FileExists returns true if the file system entity exists and is not a directory
func (f Files) FileExists(filename string) (bool, error) {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return !info.IsDir(), nil
}

// FileRead is a wrapper for os.ReadFile
func (f Files) FileRead(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// FileWrite is a wrapper for os.WriteFile
func (f Files) FileWrite(path string, content []byte, perm os.FileMode) error {
	return os.WriteFile(path, content, perm)
}

// Copy copies a file's content from src to dest
func (f Files) Copy(src, dest string) (int64, error) {
	exists, err := f.FileExists(src)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, errors.Errorf("file '%v' does not exist", src)
	}

	source, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer source.Close()

	destination, err := os.Create(dest)
	if err != nil {
		return 0, err
	}
	defer destination.Close()

	nBytes, err := io.Copy(destination, source)
	return nBytes, err
}

// TempDir is a wrapper for os.MkdirTemp
func (f Files) TempDir(dir, pattern string) (string, error) {
	return os.MkdirTemp(dir, pattern)
}

// RemoveAll is a wrapper for os.RemoveAll
func (f Files) RemoveAll(path string) error {
	return os.RemoveAll(path)
}
