package bpfsys

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// ENOTSUPP is returned by some bpf commands, it is kernel-internal and has
// no constant in the unix package.
var ENOTSUPP = unix.Errno(524)

// Stable error categories for kernel rejections. Callers branch on these
// with errors.Is instead of comparing raw errno values.
var (
	// ErrNotPermitted covers missing capabilities and locked memory limits.
	ErrNotPermitted = errors.New("operation not permitted")
	// ErrResourceLimit covers full maps and exhausted kernel memory.
	ErrResourceLimit = errors.New("kernel resource limit reached")
	// ErrNotExist is returned when the requested key, object or id is not
	// there.
	ErrNotExist = errors.New("no such element or object")
	// ErrExist is returned by insert-only updates when the key is already
	// in the map.
	ErrExist = errors.New("element already exists")
	// ErrInvalidArgument covers malformed attributes, bad flags and size
	// mismatches.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrTransient is returned when the kernel asks us to try again, the
	// same call may succeed later.
	ErrTransient = errors.New("temporary kernel condition")
	// ErrNotSupported is returned when the running kernel lacks a feature.
	ErrNotSupported = errors.New("feature not supported by kernel version")
)

// categorize maps an errno onto one of the stable error categories, or nil
// for errno values with no generic meaning.
func categorize(errno unix.Errno) error {
	switch errno {
	case unix.EPERM, unix.EACCES:
		return ErrNotPermitted
	case unix.E2BIG, unix.ENOMEM, unix.ENOSPC, unix.EMFILE, unix.ENFILE:
		return ErrResourceLimit
	case unix.ENOENT, unix.EBADF:
		return ErrNotExist
	case unix.EEXIST:
		return ErrExist
	case unix.EINVAL, unix.EFAULT:
		return ErrInvalidArgument
	case unix.EAGAIN, unix.EINTR, unix.EBUSY:
		return ErrTransient
	case ENOTSUPP, unix.EOPNOTSUPP, unix.ENOSYS:
		return ErrNotSupported
	}
	return nil
}

// Syserror is returned for every failed bpf syscall. It carries the raw
// errno, an optional command specific explanation, and unwraps to one of the
// stable error categories.
type Syserror struct {
	// The underlying syscall error number.
	Errno unix.Errno
	// Context specific information, the same errno means different things
	// for different commands.
	Err string
}

func (e *Syserror) Error() string {
	errStr := e.Errno.Error()
	if e.Errno == ENOTSUPP {
		errStr = "operation is not supported"
	}

	if e.Err == "" {
		return fmt.Sprintf("%s (%d)", errStr, uint(e.Errno))
	}

	return fmt.Sprintf("%s (%s)(%d)", e.Err, errStr, uint(e.Errno))
}

func (e *Syserror) Unwrap() error {
	return categorize(e.Errno)
}

// Is additionally matches the raw errno so existing errors.Is(err, unix.ENOENT)
// checks keep working.
func (e *Syserror) Is(target error) bool {
	if errno, ok := target.(unix.Errno); ok {
		return e.Errno == errno
	}
	return false
}
