package supplier

import (
	"os"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/go-faster/errors"
)

// Directory answers approximate membership queries over the universe of known
// supplier identifiers. It is backed by a bloom filter built offline by the
// supplier-ingest tool, so a negative answer is definite while a positive one
// has a small false-positive rate.
//
// A nil *Directory is valid and treats every identifier as known, which is
// the behavior when no filter file is configured.
type Directory struct {
	filter *bloom.BloomFilter
}

// NewDirectory wraps an already-populated bloom filter.
func NewDirectory(filter *bloom.BloomFilter) *Directory {
	return &Directory{filter: filter}
}

// LoadDirectory reads a serialized bloom filter from path.
func LoadDirectory(path string) (*Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open supplier filter %s", path)
	}
	defer func() { _ = f.Close() }()

	filter := &bloom.BloomFilter{}
	if _, err := filter.ReadFrom(f); err != nil {
		return nil, errors.Wrapf(err, "read supplier filter %s", path)
	}

	return &Directory{filter: filter}, nil
}

// Known reports whether id plausibly belongs to a registered supplier.
func (d *Directory) Known(id string) bool {
	if d == nil || d.filter == nil {
		return true
	}
	return d.filter.TestString(id)
}
