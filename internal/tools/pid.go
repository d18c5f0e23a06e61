package tools

import (
	"os"
	"strconv"
)

// WritePidFile writes current process id into pidFile, does nothing when
// pidFile is empty.
func WritePidFile(pidFile string) error {
	if pidFile == "" {
		return nil
	}
	pid := []byte(strconv.Itoa(os.Getpid()) + "\n")
	return os.WriteFile(pidFile, pid, 0644)
}
