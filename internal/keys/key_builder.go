package keys

import "encoding/binary"

// Kind tokens. Each is followed by fixed-width big-endian IDs, so byte order
// matches numeric order and a poll's contestant range never covers another
// poll's.
const (
	kindPoll       = "poll:"
	kindContestant = "contestant:"
	kindMeta       = "meta:"

	pollCountName = "poll_count"
)

// KeyBuilder provides environment-aware ledger key building
type KeyBuilder struct {
	prefix string // Environment prefix (staging/prod)
}

// NewKeyBuilder creates a new key builder with environment-based prefix
func NewKeyBuilder(environment string) *KeyBuilder {
	prefix := "prod"
	if environment == "development" || environment == "staging" || environment == "test" {
		prefix = "staging"
	}

	return &KeyBuilder{
		prefix: prefix,
	}
}

// GetPrefix returns the current environment prefix
func (kb *KeyBuilder) GetPrefix() string {
	return kb.prefix
}

// PollKey is the storage key of poll id.
func (kb *KeyBuilder) PollKey(id uint64) []byte {
	return appendUint64(kb.PollsPrefix(), id)
}

// PollsPrefix covers every poll and nothing else.
func (kb *KeyBuilder) PollsPrefix() []byte {
	return kb.build(kindPoll)
}

// ContestantKey is the storage key of contestant id in poll pollID.
func (kb *KeyBuilder) ContestantKey(pollID, id uint64) []byte {
	return appendUint64(kb.ContestantsPrefix(pollID), id)
}

// ContestantsPrefix covers exactly the contestants of pollID.
func (kb *KeyBuilder) ContestantsPrefix(pollID uint64) []byte {
	return appendUint64(kb.build(kindContestant), pollID)
}

// PollCountKey holds the last allocated poll ID.
func (kb *KeyBuilder) PollCountKey() []byte {
	return append(kb.build(kindMeta), pollCountName...)
}

// PollIDFromKey recovers the poll ID from a PollKey.
func (kb *KeyBuilder) PollIDFromKey(key []byte) (uint64, bool) {
	prefix := kb.PollsPrefix()
	if len(key) != len(prefix)+8 || string(key[:len(prefix)]) != string(prefix) {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(prefix):]), true
}

// ContestantIDFromKey recovers the contestant ID from a ContestantKey of
// pollID.
func (kb *KeyBuilder) ContestantIDFromKey(pollID uint64, key []byte) (uint64, bool) {
	prefix := kb.ContestantsPrefix(pollID)
	if len(key) != len(prefix)+8 || string(key[:len(prefix)]) != string(prefix) {
		return 0, false
	}
	return binary.BigEndian.Uint64(key[len(prefix):]), true
}

func (kb *KeyBuilder) build(kind string) []byte {
	key := make([]byte, 0, len(kb.prefix)+1+len(kind)+16)
	key = append(key, kb.prefix...)
	key = append(key, ':')
	return append(key, kind...)
}

func appendUint64(b []byte, v uint64) []byte {
	return binary.BigEndian.AppendUint64(b, v)
}
