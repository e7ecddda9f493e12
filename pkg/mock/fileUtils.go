//go:build !release

package mock

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/datapub/datapub/pkg/pubutils"
)

var _ pubutils.FileUtils = &FilesMock{}

// FilesMock implements the FileUtils interface on top of an in-memory file system.
type FilesMock struct {
	files        map[string][]byte
	writtenFiles []string
	dirs         map[string]bool
	tempCount    int
}

func (f *FilesMock) init() {
	if f.files == nil {
		f.files = map[string][]byte{}
	}
	if f.dirs == nil {
		f.dirs = map[string]bool{}
	}
}

// AddFile places a file with the given content into the mocked file system.
func (f *FilesMock) AddFile(path string, contents []byte) {
	f.init()
	f.files[path] = contents
}

// HasFile returns true if the virtual file system contains the given entry.
func (f *FilesMock) HasFile(path string) bool {
	_, exists := f.files[path]
	return exists
}

// HasWrittenFile returns true if the given path was written via FileWrite.
func (f *FilesMock) HasWrittenFile(path string) bool {
	for _, written := range f.writtenFiles {
		if written == path {
			return true
		}
	}
	return false
}

// FileNames returns the sorted paths of all files currently in the mock.
func (f *FilesMock) FileNames() []string {
	names := make([]string, 0, len(f.files))
	for name := range f.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (f *FilesMock) FileExists(path string) (bool, error) {
	f.init()
	_, exists := f.files[path]
	return exists, nil
}

func (f *FilesMock) FileRead(path string) ([]byte, error) {
	f.init()
	content, exists := f.files[path]
	if !exists {
		return nil, fmt.Errorf("could not read '%s'", path)
	}
	return content, nil
}

func (f *FilesMock) FileWrite(path string, content []byte, perm os.FileMode) error {
	f.init()
	f.files[path] = content
	f.writtenFiles = append(f.writtenFiles, path)
	return nil
}

func (f *FilesMock) Copy(src, dst string) (int64, error) {
	content, err := f.FileRead(src)
	if err != nil {
		return 0, err
	}
	if err := f.FileWrite(dst, content, 0666); err != nil {
		return 0, err
	}
	return int64(len(content)), nil
}

// TempDir returns a deterministic directory path without touching the real file system.
func (f *FilesMock) TempDir(dir, pattern string) (string, error) {
	f.init()
	f.tempCount++
	tempDir := filepath.Join(os.TempDir(), fmt.Sprintf("%s%d", pattern, f.tempCount))
	f.dirs[tempDir] = true
	return tempDir, nil
}

func (f *FilesMock) RemoveAll(path string) error {
	f.init()
	delete(f.dirs, path)
	for name := range f.files {
		if name == path || strings.HasPrefix(name, path+string(os.PathSeparator)) {
			delete(f.files, name)
		}
	}
	return nil
}
