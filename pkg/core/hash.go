package core

import (
	"fmt"
	"io"

	blake2b "github.com/minio/blake2b-simd"
	"github.com/oneconcern/snapvcs/pkg/core/status"
	"github.com/oneconcern/snapvcs/pkg/model"
	"github.com/spf13/afero"
)

// HashFile computes the content digest of a file, over its raw bytes
func HashFile(fs afero.Fs, pth string) (model.Digest, error) {
	var digest model.Digest
	f, err := fs.Open(pth)
	if err != nil {
		return digest, status.ErrIO.Wrap(fmt.Errorf("open %q: %w", pth, err))
	}
	defer f.Close()

	digest, err = HashReader(f)
	if err != nil {
		return digest, status.ErrIO.Wrap(fmt.Errorf("read %q: %w", pth, err))
	}
	return digest, nil
}

// HashReader computes the content digest of a stream
func HashReader(r io.Reader) (model.Digest, error) {
	var digest model.Digest
	hasher := blake2b.New256()
	if _, err := io.Copy(hasher, r); err != nil {
		return digest, err
	}
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// hashingReader computes the digest of everything read through it
type hashingReader struct {
	reader io.Reader
	hasher interface {
		io.Writer
		Sum([]byte) []byte
	}
	n int64
}

func newHashingReader(r io.Reader) *hashingReader {
	return &hashingReader{reader: r, hasher: blake2b.New256()}
}

func (h *hashingReader) Read(p []byte) (int, error) {
	n, err := h.reader.Read(p)
	if n > 0 {
		_, _ = h.hasher.Write(p[:n])
		h.n += int64(n)
	}
	return n, err
}

func (h *hashingReader) Digest() model.Digest {
	var digest model.Digest
	copy(digest[:], h.hasher.Sum(nil))
	return digest
}
