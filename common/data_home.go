package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetLlmchatDataHome returns a directory path for storing user-specific
// llmchat data, most importantly the chat database. If needed, it also
// creates the necessary directories according to the XDG spec. Can be
// overridden by setting the LLMCHAT_DATA_HOME environment variable.
func GetLlmchatDataHome() (string, error) {
	dataDir := os.Getenv("LLMCHAT_DATA_HOME")
	if dataDir != "" {
		return dataDir, nil
	}

	dataDir = filepath.Join(xdg.DataHome, "llmchat")
	err := os.MkdirAll(dataDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create llmchat data directory: %w", err)
	}
	return dataDir, nil
}
