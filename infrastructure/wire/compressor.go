package wire

import "github.com/golang/snappy"

// Compress snappy-encodes src into dst (grown if needed) and returns the
// encoded block.
func Compress(dst, src []byte) []byte {
	return snappy.Encode(dst, src)
}

// Decompress inverts Compress. Corrupt input yields an error; the caller is
// expected to drop the datagram.
func Decompress(dst, src []byte) ([]byte, error) {
	return snappy.Decode(dst, src)
}

// MaxCompressedLen reports the worst-case encoded size for an n-byte packet.
func MaxCompressedLen(n int) int {
	return snappy.MaxEncodedLen(n)
}
