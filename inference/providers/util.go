// Package providers - Utility functions.
package providers

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SharedLibraryEnv names the environment variable that overrides the ONNX
// Runtime shared library location.
const SharedLibraryEnv = "ONNXRUNTIME_SHARED_LIBRARY_PATH"

// defaultLibName returns the file name of the shared library for the current
// platform.
func defaultLibName() (string, error) {
	switch runtime.GOOS {
	case "windows":
		if runtime.GOARCH == "amd64" {
			return "onnxruntime.dll", nil
		}
	case "darwin":
		return "libonnxruntime.dylib", nil
	case "linux":
		if runtime.GOARCH == "arm64" {
			return "onnxruntime_arm64.so", nil
		}
		return "onnxruntime.so", nil
	}
	return "", fmt.Errorf("no onnxruntime library available for %s/%s", runtime.GOOS, runtime.GOARCH)
}

// GetSharedLibPath returns the path to the shared library for the current platform.
//
// The override wins, then the ONNXRUNTIME_SHARED_LIBRARY_PATH environment
// variable, then third_party/<platform library> next to the executable.
//
// Arguments:
//   - override: An explicit path from configuration, or empty.
//
// Returns:
//   - string: The path to the shared library.
//   - error: If the platform is unsupported or the file does not exist.
func GetSharedLibPath(override string) (string, error) {
	path := override
	if path == "" {
		path = os.Getenv(SharedLibraryEnv)
	}
	if path == "" {
		name, err := defaultLibName()
		if err != nil {
			return "", err
		}
		exe, err := os.Executable()
		if err != nil {
			return "", fmt.Errorf("failed to locate executable: %w", err)
		}
		path = filepath.Join(filepath.Dir(exe), "third_party", name)
	}

	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("ONNX Runtime library not found at %s: %w", path, err)
	}
	return path, nil
}
