// Package vshlib implements the `.vshlib` library codec: a 56-byte header,
// concatenated blobs, a table of contents, and an optional trailing engine-keywords
// byte payload. Grounded on oxy-go's loader/cache map-by-key idiom
// (engine/loader/loader.go's modelCache) generalized to a sorted, persisted table of
// contents rather than an in-memory map.
package vshlib

import (
	"encoding/binary"
	"sort"

	"github.com/vultra/vshaderc/shaderdef"
	"github.com/vultra/vshaderc/vserr"
)

const (
	magic          = "VSHLIB\x00\x00"
	currentVersion = uint32(2)
	headerSize     = 56
	tocEntrySize   = 32
)

// Entry is one library member.
type Entry struct {
	KeyHash uint64
	Stage   shaderdef.Stage
	Blob    []byte
}

// Library is the in-memory form of a `.vshlib` file.
type Library struct {
	Entries             []Entry
	EngineKeywordsBytes []byte // nil if absent
}

// Encode serializes lib into the `.vshlib` byte layout. Entries are written in
// ascending (keyHash, stage) order regardless of Entries' input order.
// Encode rejects any entry with keyHash==0 or stage==Unknown with InvalidArgument, and
// any duplicate (keyHash, stage) pair likewise (a library is never persisted with a
// violated uniqueness invariant).
func Encode(lib Library) ([]byte, error) {
	sorted := append([]Entry(nil), lib.Entries...)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].KeyHash != sorted[j].KeyHash {
			return sorted[i].KeyHash < sorted[j].KeyHash
		}
		return sorted[i].Stage < sorted[j].Stage
	})

	seen := make(map[[2]uint64]struct{}, len(sorted))
	for _, e := range sorted {
		if e.KeyHash == 0 {
			return nil, vserr.New(vserr.InvalidArgument, "vshlib: entry has zero keyHash")
		}
		if e.Stage == shaderdef.StageUnknown {
			return nil, vserr.New(vserr.InvalidArgument, "vshlib: entry has Unknown stage")
		}
		key := [2]uint64{e.KeyHash, uint64(e.Stage)}
		if _, dup := seen[key]; dup {
			return nil, vserr.New(vserr.InvalidArgument, "vshlib: duplicate entry (keyHash=%d, stage=%d)", e.KeyHash, e.Stage)
		}
		seen[key] = struct{}{}
	}

	blobs := make([]byte, 0)
	offsets := make([]uint64, len(sorted))
	for i, e := range sorted {
		offsets[i] = uint64(headerSize + len(blobs))
		blobs = append(blobs, e.Blob...)
	}

	toc := make([]byte, 0, len(sorted)*tocEntrySize)
	for i, e := range sorted {
		entryBuf := make([]byte, tocEntrySize)
		binary.LittleEndian.PutUint64(entryBuf[0:8], e.KeyHash)
		entryBuf[8] = uint8(e.Stage)
		// bytes 9..16 are reserved, left zero.
		binary.LittleEndian.PutUint64(entryBuf[16:24], offsets[i])
		binary.LittleEndian.PutUint64(entryBuf[24:32], uint64(len(e.Blob)))
		toc = append(toc, entryBuf...)
	}

	tocOffset := uint64(headerSize + len(blobs))
	tocSize := uint64(len(toc))
	var keywordsOffset, keywordsSize uint64
	if lib.EngineKeywordsBytes != nil {
		keywordsOffset = tocOffset + tocSize
		keywordsSize = uint64(len(lib.EngineKeywordsBytes))
	}

	out := make([]byte, headerSize, headerSize+len(blobs)+len(toc)+len(lib.EngineKeywordsBytes))
	copy(out[0:8], []byte(magic))
	binary.LittleEndian.PutUint32(out[8:12], currentVersion)
	binary.LittleEndian.PutUint32(out[12:16], 0)
	binary.LittleEndian.PutUint32(out[16:20], uint32(len(sorted)))
	binary.LittleEndian.PutUint32(out[20:24], 0)
	binary.LittleEndian.PutUint64(out[24:32], tocOffset)
	binary.LittleEndian.PutUint64(out[32:40], tocSize)
	binary.LittleEndian.PutUint64(out[40:48], keywordsOffset)
	binary.LittleEndian.PutUint64(out[48:56], keywordsSize)

	out = append(out, blobs...)
	out = append(out, toc...)
	if lib.EngineKeywordsBytes != nil {
		out = append(out, lib.EngineKeywordsBytes...)
	}
	return out, nil
}

// Decode parses a `.vshlib` byte stream back into a Library, validating every TOC
// entry's offset/size against the blob region and rejecting keyHash==0 or
// stage==Unknown entries.
func Decode(data []byte) (Library, error) {
	if len(data) < headerSize {
		return Library{}, vserr.New(vserr.DeserializeError, "vshlib: truncated header")
	}
	if string(data[0:8]) != magic {
		return Library{}, vserr.New(vserr.DeserializeError, "vshlib: bad magic")
	}
	version := binary.LittleEndian.Uint32(data[8:12])
	if version != currentVersion {
		return Library{}, vserr.New(vserr.DeserializeError, "vshlib: unsupported version %d", version)
	}
	entryCount := binary.LittleEndian.Uint32(data[16:20])
	tocOffset := binary.LittleEndian.Uint64(data[24:32])
	tocSize := binary.LittleEndian.Uint64(data[32:40])
	keywordsOffset := binary.LittleEndian.Uint64(data[40:48])
	keywordsSize := binary.LittleEndian.Uint64(data[48:56])

	if tocOffset > uint64(len(data)) || tocOffset+tocSize > uint64(len(data)) {
		return Library{}, vserr.New(vserr.DeserializeError, "vshlib: TOC region out of bounds")
	}
	if tocSize != uint64(entryCount)*tocEntrySize {
		return Library{}, vserr.New(vserr.DeserializeError, "vshlib: TOC size does not match entry count")
	}

	toc := data[tocOffset : tocOffset+tocSize]
	entries := make([]Entry, 0, entryCount)
	for i := uint32(0); i < entryCount; i++ {
		rec := toc[i*tocEntrySize : (i+1)*tocEntrySize]
		keyHash := binary.LittleEndian.Uint64(rec[0:8])
		stage := shaderdef.Stage(rec[8])
		offset := binary.LittleEndian.Uint64(rec[16:24])
		size := binary.LittleEndian.Uint64(rec[24:32])

		if keyHash == 0 {
			return Library{}, vserr.New(vserr.DeserializeError, "vshlib: TOC entry has zero keyHash")
		}
		if stage == shaderdef.StageUnknown {
			return Library{}, vserr.New(vserr.DeserializeError, "vshlib: TOC entry has Unknown stage")
		}
		if offset < headerSize || offset+size > tocOffset {
			return Library{}, vserr.New(vserr.DeserializeError, "vshlib: TOC entry blob range out of bounds")
		}

		blob := make([]byte, size)
		copy(blob, data[offset:offset+size])
		entries = append(entries, Entry{KeyHash: keyHash, Stage: stage, Blob: blob})
	}

	lib := Library{Entries: entries}
	if keywordsSize > 0 {
		if keywordsOffset < tocOffset+tocSize || keywordsOffset+keywordsSize > uint64(len(data)) {
			return Library{}, vserr.New(vserr.DeserializeError, "vshlib: engine-keywords region out of bounds")
		}
		kw := make([]byte, keywordsSize)
		copy(kw, data[keywordsOffset:keywordsOffset+keywordsSize])
		lib.EngineKeywordsBytes = kw
	}

	return lib, nil
}

// Lookup returns the blob for the given (keyHash, stage) pair, or an IO error "entry
// not found" on miss. Entries are assumed sorted, as Decode/Encode both guarantee;
// Lookup uses binary search.
func (l Library) Lookup(keyHash uint64, stage shaderdef.Stage) ([]byte, error) {
	entries := l.Entries
	i := sort.Search(len(entries), func(i int) bool {
		if entries[i].KeyHash != keyHash {
			return entries[i].KeyHash >= keyHash
		}
		return entries[i].Stage >= stage
	})
	if i < len(entries) && entries[i].KeyHash == keyHash && entries[i].Stage == stage {
		return entries[i].Blob, nil
	}
	return nil, vserr.New(vserr.IO, "entry not found")
}
