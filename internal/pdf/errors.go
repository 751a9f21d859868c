package pdf

import "errors"

// Sentinel errors for graph operations.
var (
	ErrMalformed        = errors.New("malformed PDF document")
	ErrInvalidReference = errors.New("invalid object reference")
	ErrEncrypted        = errors.New("encrypted documents are not supported")
	ErrNoPages          = errors.New("document has no pages")
	ErrPageIndex        = errors.New("page index out of range")
)
