package project

import (
	"strings"

	"github.com/crytic/sollink/utils"
	"github.com/pkg/errors"
)

// DirectoryDump is a DebugSink that writes each contract's IR text into a file under a directory, creating the
// directory on first use.
type DirectoryDump struct {
	// Directory is the directory the dump files are written into.
	Directory string
}

// NewDirectoryDump returns a DirectoryDump writing into the given directory.
func NewDirectoryDump(directory string) *DirectoryDump {
	return &DirectoryDump{Directory: directory}
}

// DumpYul writes the contract's IR text to `<directory>/<sanitized full path>.yul`.
func (d *DirectoryDump) DumpYul(fullPath string, source string) error {
	file, err := utils.CreateFile(d.Directory, sanitizeFileName(fullPath)+".yul")
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(source)
	return errors.WithStack(err)
}

// sanitizeFileName replaces the path separators of a fully-qualified contract path so it can serve as a single
// file name.
func sanitizeFileName(fullPath string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", ":", ".")
	return replacer.Replace(fullPath)
}
