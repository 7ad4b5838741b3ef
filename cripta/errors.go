package cripta

import "errors"

var (
	ErrInvalidKeyLength = errors.New("invalid key length")
	ErrInvalidIVLength  = errors.New("invalid IV length")
	ErrOutOfBounds      = errors.New("out of bounds")
	ErrNotBlockAligned  = errors.New("data length is not a multiple of the block size")
	ErrInvalidPadding   = errors.New("invalid padding")
)
