package storage

import (
	"fmt"
	"path"
	"regexp"
)

var pathComponentPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]{0,127}$`)

// BuildDatasetFilePath joins a dataset name and file name into an object
// key, validating both components so a hostile table name cannot escape
// the dataset prefix.
func BuildDatasetFilePath(datasetName, fileName string) (string, error) {
	if err := validatePathComponent(datasetName, "dataset name"); err != nil {
		return "", err
	}
	if err := validatePathComponent(fileName, "file name"); err != nil {
		return "", err
	}
	return path.Join(datasetName, fileName), nil
}

func validatePathComponent(value, field string) error {
	if !pathComponentPattern.MatchString(value) {
		return fmt.Errorf("invalid %s: %q", field, value)
	}
	return nil
}
