package util

import (
	"io/ioutil"
	"os"
	"path"

	"github.com/daedaleanai/mkninja/log"
)

// FileMode is the default FileMode used when creating files.
const FileMode = 0664

// ScriptFileMode is the FileMode used when creating executable scripts.
const ScriptFileMode = 0755

// FileExists checks whether some file exists.
func FileExists(file string) bool {
	stat, err := os.Stat(file)
	return err == nil && !stat.IsDir()
}

// DirExists checks whether some directory exists.
func DirExists(dir string) bool {
	stat, err := os.Stat(dir)
	return err == nil && stat.IsDir()
}

// ReadFile reads the content of a file and aborts on failure.
func ReadFile(filePath string) []byte {
	data, err := ioutil.ReadFile(filePath)
	if err != nil {
		log.Fatal("Failed to read file '%s': %s", filePath, err)
	}
	return data
}

// WriteFile writes data to a file and aborts on failure.
func WriteFile(filePath string, data []byte) {
	err := os.MkdirAll(path.Dir(filePath), os.ModePerm)
	if err != nil {
		log.Fatal("Failed to create directory '%s': %s", path.Dir(filePath), err)
	}
	err = ioutil.WriteFile(filePath, data, FileMode)
	if err != nil {
		log.Fatal("Failed to write file '%s': %s", filePath, err)
	}
}

// RemoveFile deletes a file if it exists.
func RemoveFile(filePath string) {
	if !FileExists(filePath) {
		return
	}
	if err := os.Remove(filePath); err != nil {
		log.Fatal("Failed to remove file '%s': %s", filePath, err)
	}
}
