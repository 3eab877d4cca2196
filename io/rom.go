package io

import (
	"errors"
	"io"
)

// ReadRom reads a ROM image, at most ROM_LIMIT bytes.
func ReadRom(r io.Reader) (data []byte, err error) {
	data, err = io.ReadAll(io.LimitReader(r, ROM_LIMIT+1))
	if err != nil {
		return
	}

	switch {
	case len(data) == 0:
		err = ErrRomEmpty
	case len(data) > ROM_LIMIT:
		err = errors.Join(ErrRomTooLarge, errors.New(f("rom exceeds %d bytes", ROM_LIMIT)))
	}
	if err != nil {
		data = nil
	}

	return
}
