package common

import (
	"fmt"
	"os"
	"strconv"
)

const defaultServerPort = 8388

func GetServerPort() int {
	port := os.Getenv("LLMCHAT_SERVER_PORT")
	if port == "" {
		return defaultServerPort
	}

	intPort, err := strconv.Atoi(port)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse llmchat server port: %s", port))
	}
	return intPort
}
