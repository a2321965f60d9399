// Package journal keeps the bounded per-turn replay journal used by the
// desync detector and the determinism harness.
package journal

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"hash/fnv"
	"sync"
)

// TurnRecord is the canonical end-of-turn fingerprint. Two runs of the same
// seed and input script must produce identical record sequences.
type TurnRecord struct {
	PlayerTurn   uint64 `json:"playerTurn"`
	AbsoluteTurn uint64 `json:"absoluteTurn"`
	Depth        int    `json:"depth"`
	RNGDraws     uint64 `json:"rngDraws"`
	PlayerHP     int    `json:"playerHp"`
	PlayerX      int    `json:"playerX"`
	PlayerY      int    `json:"playerY"`
	Checksum     uint64 `json:"checksum"`
}

// ComputeChecksum folds every replay-relevant field into one value. The
// Checksum field itself is excluded.
func (r TurnRecord) ComputeChecksum() uint64 {
	h := fnv.New64a()
	var buf [8]byte
	for _, v := range []uint64{
		r.PlayerTurn,
		r.AbsoluteTurn,
		uint64(int64(r.Depth)),
		r.RNGDraws,
		uint64(int64(r.PlayerHP)),
		uint64(int64(r.PlayerX)),
		uint64(int64(r.PlayerY)),
	} {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	return h.Sum64()
}

// Journal is a fixed-capacity ring of turn records. Old records are evicted
// silently; the rolling digest still covers every record ever written.
type Journal struct {
	mu       sync.Mutex
	capacity int
	records  []TurnRecord
	start    int
	total    uint64
	digest   [32]byte
}

// New returns a journal holding at most capacity records.
func New(capacity int) *Journal {
	if capacity <= 0 {
		capacity = 1
	}
	return &Journal{capacity: capacity}
}

// Record appends one turn record, evicting the oldest when full, and folds
// it into the rolling digest.
func (j *Journal) Record(rec TurnRecord) {
	if j == nil {
		return
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	if len(j.records) < j.capacity {
		j.records = append(j.records, rec)
	} else {
		j.records[j.start] = rec
		j.start = (j.start + 1) % j.capacity
	}
	j.total++

	h := sha256.New()
	h.Write(j.digest[:])
	var buf [8]byte
	for _, v := range []uint64{
		rec.PlayerTurn, rec.AbsoluteTurn, uint64(int64(rec.Depth)),
		rec.RNGDraws, uint64(int64(rec.PlayerHP)),
		uint64(int64(rec.PlayerX)), uint64(int64(rec.PlayerY)),
		rec.Checksum,
	} {
		binary.LittleEndian.PutUint64(buf[:], v)
		h.Write(buf[:])
	}
	copy(j.digest[:], h.Sum(nil))
}

// Len reports how many records are currently retained.
func (j *Journal) Len() int {
	if j == nil {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.records)
}

// Total reports how many records were ever written, including evicted ones.
func (j *Journal) Total() uint64 {
	if j == nil {
		return 0
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.total
}

// Last returns the most recent record, if any.
func (j *Journal) Last() (TurnRecord, bool) {
	if j == nil {
		return TurnRecord{}, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if len(j.records) == 0 {
		return TurnRecord{}, false
	}
	idx := (j.start + len(j.records) - 1) % len(j.records)
	return j.records[idx], true
}

// Records returns the retained records oldest-first.
func (j *Journal) Records() []TurnRecord {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]TurnRecord, 0, len(j.records))
	for i := 0; i < len(j.records); i++ {
		out = append(out, j.records[(j.start+i)%len(j.records)])
	}
	return out
}

// DigestHex is the rolling digest over every record ever written. Two runs
// diverge if and only if their digests do.
func (j *Journal) DigestHex() string {
	if j == nil {
		return ""
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	return hex.EncodeToString(j.digest[:])
}
