package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// GetLlmchatStateHome returns a directory path for storing user-specific
// llmchat state data (logs, traces, etc). If needed, it also creates the
// necessary directories for storing state data according to the XDG spec.
// Can be overridden by setting the LLMCHAT_STATE_HOME environment variable.
func GetLlmchatStateHome() (string, error) {
	stateDir := os.Getenv("LLMCHAT_STATE_HOME")
	if stateDir != "" {
		err := os.MkdirAll(stateDir, 0755)
		if err != nil {
			return "", fmt.Errorf("failed to create llmchat state directory from LLMCHAT_STATE_HOME: %w", err)
		}
		return stateDir, nil
	}

	stateDir = filepath.Join(xdg.StateHome, "llmchat")
	err := os.MkdirAll(stateDir, 0755)
	if err != nil {
		return "", fmt.Errorf("failed to create llmchat state directory: %w", err)
	}
	return stateDir, nil
}
