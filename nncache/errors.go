package nncache

import "github.com/pkg/errors"

// CodecError values are raised by PolicyCodec's decoder. A caller that sees
// one should treat the entry as absent - it never propagates out of NNCache.
var (
	ErrOverflow       = errors.New("nncache: codec overflow past policy length")
	ErrStrayExtension = errors.New("nncache: extension symbol after unrelated symbol")
	ErrSizeMismatch   = errors.New("nncache: decoded bit count does not match stream size")
)

// ErrJournalParse is returned by ReadEntryAt when the record at the given
// offset does not carry the expected hash.
var ErrJournalParse = errors.New("nncache: malformed journal record")

// ErrBadMagic is returned by ScanJournal when the file's header does not
// match the expected magic bytes.
var ErrBadMagic = errors.New("nncache: not an NNCache journal file")
