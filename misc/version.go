// Package misc holds build time information.
package misc

import (
	"os"
	"path/filepath"
	"strings"
)

// Set by linker (-X) at build time.
var (
	appName = ""
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns program name without extension.
func GetAppName() string {
	if len(appName) > 0 {
		return appName
	}
	name := filepath.Base(os.Args[0])
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
