//go:build linux || darwin

package target

import "golang.org/x/sys/unix"

func hostOS() string {
	var u unix.Utsname

	err := unix.Uname(&u)
	if err != nil {
		return ""
	}

	return unix.ByteSliceToString(u.Sysname[:])
}
