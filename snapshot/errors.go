package snapshot

import "errors"

// Sentinel errors for the stages of decoding a snapshot. Returned errors wrap
// one of these.
var (
	ErrEncoding    = errors.New("snapshot is not valid base64")
	ErrCompression = errors.New("snapshot could not be decompressed")
	ErrTooLarge    = errors.New("snapshot exceeds the decompressed size limit")
	ErrMalformed   = errors.New("snapshot data is malformed")
	ErrEmpty       = errors.New("nothing to copy")
)
