package codec

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dappvotes/internal/domain"
	"dappvotes/pkg/errors"
)

func TestPoll_RoundTrip(t *testing.T) {
	long := strings.Repeat("x", 64*1024)

	tests := []struct {
		name string
		poll domain.Poll
	}{
		{
			name: "fresh poll",
			poll: domain.Poll{
				ID: 1, Image: "img", Title: "T", Description: "D",
				Director: "alice", StartsAt: 100, EndsAt: 200, Timestamp: 50,
				Voters: []domain.Address{}, Avatars: []string{}, Options: []string{},
			},
		},
		{
			name: "nil collections",
			poll: domain.Poll{ID: 2},
		},
		{
			name: "populated",
			poll: domain.Poll{
				ID: 1<<64 - 1, Votes: 2, Contestants: 3, Deleted: true,
				Voters:   []domain.Address{"alice", "bob"},
				Avatars:  []string{"a.png", "b.png"},
				Question: "who?", Options: []string{"yes", "no"},
			},
		},
		{
			name: "long strings",
			poll: domain.Poll{ID: 3, Image: long, Title: long, Description: long, Director: domain.Address(long)},
		},
		{
			name: "unicode and escapes",
			poll: domain.Poll{ID: 4, Title: "\"quoted\"\n\tวันนี้ 🗳", Description: "<b>&</b>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodePoll(&tt.poll)
			require.NoError(t, err)

			got, err := DecodePoll(data)
			require.NoError(t, err)
			assert.Equal(t, tt.poll, *got)
		})
	}
}

func TestContestant_RoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		contestant domain.Contestant
	}{
		{"fresh", domain.Contestant{ID: 1, Image: "a.png", Name: "Alice", Voter: "bob", Voters: []domain.Address{}}},
		{"nil voters", domain.Contestant{ID: 2}},
		{"voted", domain.Contestant{ID: 3, Votes: 2, Voters: []domain.Address{"x", "y"}}},
		{"long name", domain.Contestant{ID: 4, Name: strings.Repeat("n", 10000)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeContestant(&tt.contestant)
			require.NoError(t, err)

			got, err := DecodeContestant(data)
			require.NoError(t, err)
			assert.Equal(t, tt.contestant, *got)
		})
	}
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"null", "null"},
		{"truncated", `{"id":1,"title":"T`},
		{"wrong type", `{"id":"one"}`},
		{"unknown field", `{"id":1,"owner":"alice"}`},
		{"array", `[1,2]`},
		{"trailing data", `{"id":1}{"id":2}`},
		{"binary", "\x00\x01\x02"},
		{"id overflows uint64", `{"id":18446744073709551616}`},
		{"counter overflows uint64", `{"id":1,"votes":18446744073709551617}`},
		{"negative id", `{"id":-1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := DecodePoll([]byte(tt.data))
			assert.Nil(t, p)
			assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedRecord), "poll: %v", err)

			c, err := DecodeContestant([]byte(tt.data))
			assert.Nil(t, c)
			assert.True(t, errors.IsType(err, errors.ErrorTypeMalformedRecord), "contestant: %v", err)
		})
	}
}

func TestDecodePoll_MaxUint64IsKept(t *testing.T) {
	p, err := DecodePoll([]byte(`{"id":18446744073709551615,"ends_at":18446744073709551615}`))
	require.NoError(t, err)
	assert.Equal(t, uint64(1<<64-1), p.ID)
	assert.Equal(t, uint64(1<<64-1), p.EndsAt)
}

func TestEncodePoll_FieldNames(t *testing.T) {
	data, err := EncodePoll(&domain.Poll{ID: 7, StartsAt: 1, EndsAt: 2})
	require.NoError(t, err)

	for _, field := range []string{`"id":7`, `"starts_at":1`, `"ends_at":2`, `"deleted":false`, `"voters":null`} {
		assert.Contains(t, string(data), field)
	}
}
