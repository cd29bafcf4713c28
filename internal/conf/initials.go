package conf

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// initialsFile is the on-disk shape of the initials roster
type initialsFile struct {
	Initials map[string]string `yaml:"initials"`
}

// LoadInitials loads the initials-to-user-id roster from a YAML file.
// When configPath is empty a set of default locations is tried; a missing
// file yields an empty roster so the bot can still serve help.
func LoadInitials(configPath string) (map[string]string, error) {
	paths := []string{configPath}
	if configPath == "" {
		paths = []string{
			"configs/initials.yaml",
			"./configs/initials.yaml",
			"/etc/retro-bot/initials.yaml",
		}
		if execPath, err := os.Executable(); err == nil {
			paths = append(paths, filepath.Join(filepath.Dir(execPath), "configs", "initials.yaml"))
		}
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, "configs", "initials.yaml"))
		}
	}

	var data []byte
	for _, p := range paths {
		if p == "" {
			continue
		}
		if content, err := os.ReadFile(p); err == nil {
			data = content
			break
		}
	}

	if data == nil {
		if configPath != "" {
			return nil, &ConfigError{Field: "INITIALS_PATH", Message: "file not readable: " + configPath}
		}
		return map[string]string{}, nil
	}

	var file initialsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &ConfigError{Field: "INITIALS_PATH", Message: "invalid YAML: " + err.Error()}
	}

	// Matching is case-insensitive, normalize the keys once here
	initials := make(map[string]string, len(file.Initials))
	for key, userID := range file.Initials {
		initials[strings.ToUpper(key)] = userID
	}
	return initials, nil
}
