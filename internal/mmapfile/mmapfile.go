// Package mmapfile maps a read-only file into memory for the index
// reader, so large trie blobs serve without copying into the Go heap.
package mmapfile

import (
	"os"

	"golang.org/x/sys/unix"
)

// File is a read-only memory-mapped file. The zero value is not usable;
// construct one with Open.
type File struct {
	data []byte
	f    *os.File
}

// Open maps path read-only. The returned File owns both the file handle
// and the mapping; Close releases both.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}
	size := st.Size()
	if size == 0 {
		f.Close()
		return &File{f: nil, data: nil}, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &File{data: data, f: f}, nil
}

// Bytes returns the mapped region. The slice is valid until Close.
func (m *File) Bytes() []byte { return m.data }

// Close unmaps the region and closes the underlying file descriptor.
func (m *File) Close() error {
	var err error
	if m.data != nil {
		err = unix.Munmap(m.data)
		m.data = nil
	}
	if m.f != nil {
		if cerr := m.f.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
