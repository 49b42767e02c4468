package driver

import (
	"github.com/vultra/vshaderc/vserr"
	"github.com/vultra/vshaderc/vshbin"
	"github.com/vultra/vshaderc/vshlib"
)

// PackLib assembles a library directly from pre-existing `.vshbin` file contents: it
// reads each blob and produces a library from their embedded (variantHash or
// contentHash, stage) identities. Unlike Build, a duplicate (keyHash, stage) pair here
// is a hard InvalidArgument error, not a silent skip: packlib assembles a library out
// of artifacts the caller chose explicitly, so a collision reflects a real naming
// conflict among those choices rather than an expected consequence of enumerating a
// cartesian product.
//
// Parameters:
//   - blobs: the raw contents of each `.vshbin` file to pack, in input order
//   - engineKeywordsRaw: the trailing engine-keywords bytes to embed verbatim, or nil
//
// Returns:
//   - vshlib.Library: the assembled library
//   - error: non-nil if a blob fails to decode or two blobs share a (keyHash, stage) pair
func PackLib(blobs [][]byte, engineKeywordsRaw []byte) (vshlib.Library, error) {
	entries := make([]vshlib.Entry, 0, len(blobs))
	seen := make(map[[2]uint64]bool, len(blobs))

	for _, data := range blobs {
		bin, err := vshbin.Decode(data)
		if err != nil {
			return vshlib.Library{}, err
		}

		keyHash := bin.VariantHash
		if keyHash == 0 {
			keyHash = bin.ContentHash
		}
		key := [2]uint64{keyHash, uint64(bin.Stage)}
		if seen[key] {
			return vshlib.Library{}, vserr.New(vserr.InvalidArgument,
				"packlib: duplicate entry (keyHash=%d, stage=%d)", keyHash, bin.Stage)
		}
		seen[key] = true

		entries = append(entries, vshlib.Entry{KeyHash: keyHash, Stage: bin.Stage, Blob: data})
	}

	return vshlib.Library{Entries: entries, EngineKeywordsBytes: engineKeywordsRaw}, nil
}
