package nncache

import (
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// magic is the 4-byte header identifying an NNCache journal file.
var magic = [4]byte{0xfe, 'L', 'N', 'C'}

// guard is the 16-byte 0xff marker written at journal open and again every
// guardInterval inserts. It resynchronizes a reader after torn or corrupt
// writes: no well-formed record header can contain sixteen consecutive
// 0xff bytes, since hash is forbidden from being all-ones (the reserved
// sentinel) and that bounds the longest run in a valid record to fifteen.
var guard = [16]byte{
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
	0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff,
}

const guardInterval = 1024

// reservedHash is never stored; it is used as a sentinel "match anything"
// expected value when reading without a known hash.
const reservedHash = 0xffffffffffffffff

// DiskJournal is an append-only file holding CompressedEntry records behind
// a magic header and periodic resync guards. The write handle is owned by
// the NNCache's exclusive lock; read handles are opened fresh per lookup.
type DiskJournal struct {
	path         string
	write        *os.File
	insertsSince int
}

// CreateJournal creates a journal for writing, or reopens an existing one
// for append without truncating it: a fresh file gets the magic header, and
// both cases get a leading guard.
func CreateJournal(path string) (*DiskJournal, error) {
	_, err := os.Stat(path)
	existed := err == nil

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrapf(err, "nncache: opening journal %q for write", path)
	}

	if !existed {
		if _, err := f.Write(magic[:]); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "nncache: writing journal magic")
		}
	}

	j := &DiskJournal{path: path, write: f}
	if err := j.writeGuard(); err != nil {
		f.Close()
		return nil, err
	}
	return j, nil
}

// Close releases the write handle, if any.
func (j *DiskJournal) Close() error {
	if j.write == nil {
		return nil
	}
	err := j.write.Close()
	j.write = nil
	return err
}

// Writable reports whether this journal has an open write handle.
func (j *DiskJournal) Writable() bool { return j.write != nil }

func (j *DiskJournal) writeGuard() error {
	if _, err := j.write.Write(guard[:]); err != nil {
		return errors.Wrap(err, "nncache: writing journal guard")
	}
	return nil
}

// Append writes one record for hash/ce and returns its starting file
// offset. Every guardInterval appends, a fresh guard is written after the
// record. The caller (NNCache.insert) is responsible for checking that the
// compressed size fits a byte and that hash is not the reserved sentinel
// before calling Append.
func (j *DiskJournal) Append(hash uint64, ce CompressedEntry) (int64, error) {
	data := ce.Bits.Bytes()
	if len(data) > 255 {
		return 0, errors.New("nncache: compressed policy exceeds 255 bytes")
	}

	offset, err := j.write.Seek(0, io.SeekCurrent)
	if err != nil {
		return 0, errors.Wrap(err, "nncache: seeking journal write offset")
	}

	var hdr [8 + 4 + 4 + 1]byte
	binary.LittleEndian.PutUint64(hdr[0:8], hash)
	binary.LittleEndian.PutUint32(hdr[8:12], math.Float32bits(ce.PolicyPass))
	binary.LittleEndian.PutUint32(hdr[12:16], math.Float32bits(ce.Winrate))
	hdr[16] = byte(len(data))

	if _, err := j.write.Write(hdr[:]); err != nil {
		return 0, errors.Wrap(err, "nncache: writing journal record header")
	}
	if _, err := j.write.Write(data); err != nil {
		return 0, errors.Wrap(err, "nncache: writing journal record body")
	}

	j.insertsSince++
	if j.insertsSince%guardInterval == 0 {
		if err := j.writeGuard(); err != nil {
			return 0, err
		}
	}
	return offset, nil
}

// journalScanner reads sequentially through an open file, tracking its
// absolute offset so a failed record can be rewound precisely.
type journalScanner struct {
	f   *os.File
	pos int64
}

func (s *journalScanner) readN(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := s.f.ReadAt(buf, s.pos)
	s.pos += int64(read)
	if read < n {
		if err == nil {
			err = io.ErrUnexpectedEOF
		}
		return buf[:read], err
	}
	return buf, nil
}

// skipGuard advances past bytes until it has consumed sixteen consecutive
// 0xff bytes, or returns io.EOF if the file ends first.
func (s *journalScanner) skipGuard() error {
	count := 0
	var one [1]byte
	for count < 16 {
		n, err := s.f.ReadAt(one[:], s.pos)
		if n == 1 {
			s.pos++
			if one[0] == 0xff {
				count++
			} else {
				count = 0
			}
			continue
		}
		if err != nil {
			return io.EOF
		}
	}
	return nil
}

// readRecord reads one record at the scanner's current position, advancing
// it past the record on success.
func (s *journalScanner) readRecord() (hash uint64, ce CompressedEntry, err error) {
	hdr, err := s.readN(17)
	if err != nil {
		return 0, CompressedEntry{}, err
	}
	hash = binary.LittleEndian.Uint64(hdr[0:8])
	policyPass := math.Float32frombits(binary.LittleEndian.Uint32(hdr[8:12]))
	winrate := math.Float32frombits(binary.LittleEndian.Uint32(hdr[12:16]))
	length := int(hdr[16])

	data, err := s.readN(length)
	if err != nil {
		return 0, CompressedEntry{}, err
	}

	return hash, CompressedEntry{
		PolicyPass: policyPass,
		Winrate:    winrate,
		Bits:       FromBytes(data),
	}, nil
}

// ScanJournal opens path read-only, verifies the magic header, and scans
// every guard-delimited section, recording (hash, starting_offset) into the
// returned index. order lists the hashes in the order their records were
// encountered (oldest first), for callers that want to rebuild a
// deterministic eviction FIFO instead of relying on map iteration order.
// It tolerates torn tail writes and partial corruption: on a record parse
// failure it rewinds to just before that record and resumes scanning at
// the next guard.
func ScanJournal(path string) (index map[uint64]int64, order []uint64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "nncache: opening journal %q for scan", path)
	}
	defer f.Close()

	var hdr [4]byte
	if _, err := f.ReadAt(hdr[:], 0); err != nil {
		return nil, nil, errors.Wrap(err, "nncache: reading journal magic")
	}
	if hdr != magic {
		return nil, nil, ErrBadMagic
	}

	index = make(map[uint64]int64)
	s := &journalScanner{f: f, pos: 4}

	for {
		if err := s.skipGuard(); err != nil {
			break // clean EOF while looking for the next guard
		}

		for {
			recordStart := s.pos
			hash, _, rerr := s.readRecord()
			// A guard reads as a record header carrying the reserved
			// all-ones hash; rewind so skipGuard consumes it.
			if rerr != nil || hash == reservedHash {
				s.pos = recordStart
				break
			}
			if _, seen := index[hash]; !seen {
				order = append(order, hash)
			}
			index[hash] = recordStart
		}
	}
	return index, order, nil
}

// ReadEntryAt opens the journal read-only and decodes the single record
// starting at offset, verifying it matches expectedHash. n is the policy
// length to decode into.
func ReadEntryAt(path string, offset int64, expectedHash uint64, n int) (Netresult, error) {
	f, err := os.Open(path)
	if err != nil {
		return Netresult{}, errors.Wrap(err, "nncache: opening journal for read")
	}
	defer f.Close()

	s := &journalScanner{f: f, pos: offset}
	hash, ce, err := s.readRecord()
	if err != nil {
		return Netresult{}, errors.Wrap(err, "nncache: reading journal record")
	}
	if expectedHash != reservedHash && hash != expectedHash {
		return Netresult{}, ErrJournalParse
	}
	ce.N = n
	return ce.Decode()
}
