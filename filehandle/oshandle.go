package filehandle

import "os"

// OSHandle implements Handle over a real *os.File.
type OSHandle struct {
	f *os.File
}

// NewOSHandle returns an unopened handle.
func NewOSHandle() *OSHandle {
	return &OSHandle{}
}

func (h *OSHandle) OpenFor(ref FileRef) error {
	f, err := os.OpenFile(ref.Path, os.O_RDWR, 0)
	if err != nil {
		return err
	}
	h.f = f
	return nil
}

func (h *OSHandle) Close() error {
	if h.f == nil {
		return nil
	}
	err := h.f.Close()
	h.f = nil
	return err
}

func (h *OSHandle) Read(pos int64, buf []byte) (int, error) {
	if h.f == nil {
		return 0, ErrNotOpen
	}
	return h.f.ReadAt(buf, pos)
}

func (h *OSHandle) WriteAt(pos int64, buf []byte) error {
	if h.f == nil {
		return ErrNotOpen
	}
	_, err := h.f.WriteAt(buf, pos)
	return err
}

func (h *OSHandle) Stat() (Triple, error) {
	if h.f == nil {
		return Triple{}, ErrNotOpen
	}
	info, err := h.f.Stat()
	if err != nil {
		return Triple{}, err
	}
	t := Triple{
		Size:  info.Size(),
		Mtime: info.ModTime().UnixNano(),
	}
	fillInode(&t, info)
	return t, nil
}
