package pdf

import (
	"bytes"

	"github.com/klauspost/compress/zlib"
)

// FlateEncode compresses data with zlib at the default level, for new
// streams tagged /FlateDecode.
func FlateEncode(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
