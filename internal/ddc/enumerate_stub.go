//go:build !windows && !darwin && !linux

package ddc

func enumerate() ([]Display, error) {
	return nil, ErrUnsupportedPlatform
}
