package report

import (
	"encoding/hex"
	"hash"
	"io"
	"os"

	"golang.org/x/crypto/blake2b"
)

// newDigest returns the hash used for report digests: unkeyed BLAKE2b-256.
func newDigest() hash.Hash {
	h, _ := blake2b.New256(nil) //nolint:errcheck // nil key never fails
	return h
}

// Digest returns the hex encoded digest of everything read from r and the
// number of bytes read. It matches Result.Digest for the same content.
func Digest(r io.Reader) (string, int64, error) {
	h := newDigest()
	n, err := io.Copy(h, r)
	if err != nil {
		return "", n, err
	}
	return hex.EncodeToString(h.Sum(nil)), n, nil
}

// DigestFile returns the digest and size of the file at path.
func DigestFile(path string) (string, int64, error) {
	f, err := os.Open(path) //nolint:gosec // user-provided report path
	if err != nil {
		return "", 0, &IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	digest, n, err := Digest(f)
	if err != nil {
		return "", n, &IOError{Op: "read", Path: path, Err: err}
	}
	return digest, n, nil
}
