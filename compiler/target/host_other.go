//go:build !linux && !darwin

package target

import "runtime"

func hostOS() string {
	return runtime.GOOS
}
