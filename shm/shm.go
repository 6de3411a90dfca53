// Package shm provides helpers for dealing with shared memory.
package shm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Create creates an anonymous shared memory file of the given size.
// It uses memfd_create(2) and falls back to an unlinked file in
// /dev/shm if that isn't available.
func Create(name string, size int64) (*os.File, error) {
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return CreateIn("/dev/shm", name, size)
	}

	file := os.NewFile(uintptr(fd), name)
	err = file.Truncate(size)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("truncate: %w", err)
	}
	return file, nil
}

// CreateIn creates a file of the given size in dir and then unlinks
// it, leaving only the open file.
func CreateIn(dir, name string, size int64) (*os.File, error) {
	file, err := os.CreateTemp(dir, name+"-*")
	if err != nil {
		return nil, err
	}
	err = os.Remove(file.Name())
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("unlink: %w", err)
	}

	err = file.Truncate(size)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("truncate: %w", err)
	}
	return file, nil
}

type Mmap []byte

// Map maps size bytes of file into memory with MAP_SHARED.
func Map(file *os.File, size int, prot int) (mmap Mmap, err error) {
	sc, err := file.SyscallConn()
	if err != nil {
		return nil, err
	}

	cerr := sc.Control(func(fd uintptr) {
		m, merr := unix.Mmap(int(fd), 0, size, prot, unix.MAP_SHARED)
		mmap, err = Mmap(m), merr
	})
	if cerr != nil {
		return nil, cerr
	}

	return mmap, err
}

func (mmap Mmap) Unmap() error {
	return unix.Munmap(mmap)
}
