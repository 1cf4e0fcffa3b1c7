package art

import "os"

// FileStream is a plain os.File-backed Stream: every read/write goes
// straight to the file descriptor, no memory mapping. Grounded on
// ceth-x86-create-your-own-database/pkg/storage/storage.go's minimal
// read/write/seek wrapper — the simplest concrete backend satisfying
// §6's contract, used for tests and for platforms without mmap.
type FileStream struct {
	file *os.File
}

// NewFileStream opens (creating if necessary) a file-backed stream.
func NewFileStream(path string) (*FileStream, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, err
	}

	return &FileStream{file: f}, nil
}

func (s *FileStream) ReadAt(buf []byte, off uint64) (int, error) {
	return s.file.ReadAt(buf, int64(off))
}

func (s *FileStream) WriteAt(buf []byte, off uint64) (int, error) {
	return s.file.WriteAt(buf, int64(off))
}

func (s *FileStream) Len() (uint64, error) {
	info, err := s.file.Stat()
	if err != nil {
		return 0, err
	}

	return uint64(info.Size()), nil
}

func (s *FileStream) SetLength(n uint64) error {
	return s.file.Truncate(int64(n))
}

func (s *FileStream) Flush() error {
	return s.file.Sync()
}

func (s *FileStream) Close() error {
	return s.file.Close()
}
