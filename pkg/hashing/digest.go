package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"sync"
)

// Digest is a hex-encoded SHA-256 content hash.
// Digests are compared for equality only; the change-detection pipeline
// treats two byte sequences as identical exactly when their digests match.
type Digest string

// defaultBufferSize is the read buffer used for streaming hashes
const defaultBufferSize = 64 * 1024

// bufferPool recycles read buffers across concurrent hash computations
var bufferPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, defaultBufferSize)
		return &buf
	},
}

// Sum computes the digest of an in-memory byte sequence
func Sum(data []byte) Digest {
	sum := sha256.Sum256(data)
	return Digest(hex.EncodeToString(sum[:]))
}

// SumReader computes the digest of everything readable from r
func SumReader(r io.Reader) (Digest, error) {
	hasher := sha256.New()

	bufPtr := bufferPool.Get().(*[]byte)
	buffer := *bufPtr
	defer bufferPool.Put(bufPtr)

	for {
		n, err := r.Read(buffer)
		if n > 0 {
			hasher.Write(buffer[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("failed to read for hashing: %w", err)
		}
	}

	return Digest(hex.EncodeToString(hasher.Sum(nil))), nil
}

// SumFile computes the digest of a file's full content
func SumFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	return SumReader(file)
}
