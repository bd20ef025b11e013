package configs

import (
	"os"
	"path/filepath"

	"github.com/PolarWolf314/nodekeys/internal/utils"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
	Username        string
}

var UserNodekeysSettings *UserSettings

func init() {
	UserNodekeysSettings = defaultUserSettings()
}

func defaultUserSettings() *UserSettings {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = os.TempDir()
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(homeDir, ".config")
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	// Username is only used to label audit entries.
	username, err := utils.GetUsername()
	if err != nil {
		username = "unknown"
	}

	return &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "nodekeys"),
		UserDataPath:    filepath.Join(dataDir, "nodekeys"),
		Username:        username,
	}
}

// DefaultSessionPath returns where the session file lives unless a path is
// given explicitly.
func DefaultSessionPath() string {
	return filepath.Join(UserNodekeysSettings.UserConfigsPath, "session.toml")
}

// AuditLogPath returns the path of the share audit trail.
func AuditLogPath() string {
	return filepath.Join(UserNodekeysSettings.UserDataPath, "audit.jsonl")
}
