package viewer

import (
	"errors"
	"fmt"

	"github.com/sqweek/dialog"
)

// ErrNoScene is returned when no scene path is configured and the user
// dismisses the file picker.
var ErrNoScene = errors.New("no scene selected")

// Picker asks the user for a scene file.
type Picker func() (string, error)

// DialogPicker opens the native file dialog filtered to scene documents.
func DialogPicker() (string, error) {
	path, err := dialog.File().
		Filter("Scene files", "json", "yaml", "yml").
		Title("Open scene").
		Load()
	if errors.Is(err, dialog.ErrCancelled) {
		return "", ErrNoScene
	}
	if err != nil {
		return "", fmt.Errorf("file dialog: %w", err)
	}
	return path, nil
}

// resolveScenePath returns configured, or asks pick when it is empty.
func resolveScenePath(configured string, pick Picker) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if pick == nil {
		return "", ErrNoScene
	}
	path, err := pick()
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", ErrNoScene
	}
	return path, nil
}
