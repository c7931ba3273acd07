package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfig names the environment variable holding an explicit palette path.
const EnvConfig = "HUEGRID_CONFIG"

var configFilenames = []string{
	"huegrid.yaml",
	"huegrid.yml",
	"huegrid.toml",
	"huegrid.json",
}

// Find resolves the palette file to use. An explicit path wins, then
// $HUEGRID_CONFIG, then the first huegrid.{yaml,yml,toml,json} found in dir
// or any of its parents.
func Find(dir, explicit string) (string, error) {
	if explicit = strings.TrimSpace(explicit); explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvConfig))
	}
	if explicit != "" {
		info, err := os.Stat(explicit)
		if err != nil {
			return "", err
		}
		if info.IsDir() {
			return "", fmt.Errorf("palette %q is a directory", explicit)
		}
		return explicit, nil
	}

	if dir == "" {
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		for _, name := range configFilenames {
			candidate := filepath.Join(abs, name)
			if fileExists(candidate) {
				return candidate, nil
			}
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			break
		}
		abs = parent
	}
	return "", fmt.Errorf("no palette found: pass --config or create one of %s", strings.Join(configFilenames, ", "))
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}
