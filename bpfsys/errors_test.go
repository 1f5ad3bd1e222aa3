package bpfsys

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-quicktest/qt"
	"golang.org/x/sys/unix"
)

func TestSyserrorCategories(t *testing.T) {
	cases := []struct {
		errno unix.Errno
		want  error
	}{
		{unix.EPERM, ErrNotPermitted},
		{unix.EACCES, ErrNotPermitted},
		{unix.ENOMEM, ErrResourceLimit},
		{unix.E2BIG, ErrResourceLimit},
		{unix.ENOENT, ErrNotExist},
		{unix.EEXIST, ErrExist},
		{unix.EINVAL, ErrInvalidArgument},
		{unix.EFAULT, ErrInvalidArgument},
		{unix.EAGAIN, ErrTransient},
		{unix.EINTR, ErrTransient},
		{unix.EOPNOTSUPP, ErrNotSupported},
		{ENOTSUPP, ErrNotSupported},
	}

	for _, c := range cases {
		t.Run(c.errno.Error(), func(t *testing.T) {
			err := error(&Syserror{Errno: c.errno})
			qt.Assert(t, qt.ErrorIs(err, c.want))
		})
	}
}

func TestSyserrorMatchesRawErrno(t *testing.T) {
	err := error(&Syserror{Errno: unix.ENOENT})

	qt.Assert(t, qt.ErrorIs(err, unix.ENOENT))
	qt.Assert(t, qt.IsFalse(errors.Is(err, unix.EPERM)))
}

func TestSyserrorMatchingSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("map lookup: %w", &Syserror{Errno: unix.ENOENT})

	qt.Assert(t, qt.ErrorIs(err, ErrNotExist))
	qt.Assert(t, qt.ErrorIs(err, unix.ENOENT))
}

func TestSyserrorUnknownErrnoHasNoCategory(t *testing.T) {
	err := error(&Syserror{Errno: unix.EXDEV})

	for _, category := range []error{
		ErrNotPermitted, ErrResourceLimit, ErrNotExist, ErrExist,
		ErrInvalidArgument, ErrTransient, ErrNotSupported,
	} {
		qt.Assert(t, qt.IsFalse(errors.Is(err, category)))
	}

	// The raw code stays visible so callers are never fully blind.
	qt.Assert(t, qt.ErrorIs(err, unix.EXDEV))
}

func TestSyserrorMessageIncludesErrnoNumber(t *testing.T) {
	err := &Syserror{Errno: unix.EINVAL, Err: "key size mismatch"}
	qt.Assert(t, qt.Equals(err.Error(), "key size mismatch (invalid argument)(22)"))
}
