package ddc

import "os/exec"

// findTool locates an external DDC tool, preferring PATH over the given
// fallback locations.
func findTool(name string, fallbacks ...string) (string, error) {
	for _, candidate := range append([]string{name}, fallbacks...) {
		if path, err := exec.LookPath(candidate); err == nil {
			return path, nil
		}
	}
	return "", ErrToolNotFound
}
