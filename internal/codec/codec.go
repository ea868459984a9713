// Package codec turns ledger entities into stored bytes and back.
package codec

import (
	"bytes"
	stderrors "errors"

	"github.com/goccy/go-json"

	"dappvotes/internal/domain"
	"dappvotes/pkg/errors"
	"dappvotes/pkg/strictjson"
)

// EncodePoll serializes a poll for storage.
func EncodePoll(p *domain.Poll) ([]byte, error) {
	return encode(p)
}

// DecodePoll parses a stored poll.
func DecodePoll(data []byte) (*domain.Poll, error) {
	var p domain.Poll
	if err := decode(data, &p); err != nil {
		return nil, errors.NewMalformedRecordError("poll record is malformed", err)
	}
	return &p, nil
}

// EncodeContestant serializes a contestant for storage.
func EncodeContestant(c *domain.Contestant) ([]byte, error) {
	return encode(c)
}

// DecodeContestant parses a stored contestant.
func DecodeContestant(data []byte) (*domain.Contestant, error) {
	var c domain.Contestant
	if err := decode(data, &c); err != nil {
		return nil, errors.NewMalformedRecordError("contestant record is malformed", err)
	}
	return &c, nil
}

func encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.NewInternalError("failed to encode record", err)
	}
	return data, nil
}

var (
	errEmpty = stderrors.New("empty record")
	errNull  = stderrors.New("null record")
)

// decode is strict: one JSON object, no unknown fields, nothing after it,
// and every number a valid uint64.
func decode(data []byte, v any) error {
	trimmed := bytes.TrimSpace(data)
	switch {
	case len(trimmed) == 0:
		return errEmpty
	case bytes.Equal(trimmed, []byte("null")):
		return errNull
	}
	return strictjson.Unmarshal(trimmed, v)
}
