package domain

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/goccy/go-json"

	"dappvotes/pkg/errors"
	"dappvotes/pkg/strictjson"
)

// Command is one of the mutating messages. The set is closed: only the
// types in this file implement it.
type Command interface {
	Action() string
	isCommand()
}

// Query is one of the read-only messages.
type Query interface {
	QueryName() string
	isQuery()
}

// CreatePoll opens a new poll directed by the caller.
type CreatePoll struct {
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    uint64 `json:"starts_at"`
	EndsAt      uint64 `json:"ends_at"`
}

// UpdatePoll replaces a poll's display fields and window.
type UpdatePoll struct {
	ID          uint64 `json:"id"`
	Image       string `json:"image"`
	Title       string `json:"title"`
	Description string `json:"description"`
	StartsAt    uint64 `json:"starts_at"`
	EndsAt      uint64 `json:"ends_at"`
}

// DeletePoll marks a poll deleted without removing it.
type DeletePoll struct {
	ID uint64 `json:"id"`
}

// Contest registers a contestant in a poll.
type Contest struct {
	PollID uint64 `json:"poll_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Vote casts the caller's single vote in a poll.
type Vote struct {
	PollID       uint64 `json:"poll_id"`
	ContestantID uint64 `json:"contestant_id"`
}

func (CreatePoll) Action() string { return "create_poll" }
func (UpdatePoll) Action() string { return "update_poll" }
func (DeletePoll) Action() string { return "delete_poll" }
func (Contest) Action() string    { return "contest" }
func (Vote) Action() string       { return "vote" }

func (CreatePoll) isCommand() {}
func (UpdatePoll) isCommand() {}
func (DeletePoll) isCommand() {}
func (Contest) isCommand()    {}
func (Vote) isCommand()       {}

// GetPolls lists every poll in ID order.
type GetPolls struct{}

// GetPoll reads one poll.
type GetPoll struct {
	ID uint64 `json:"id"`
}

// GetContestants lists a poll's contestants in ID order.
type GetContestants struct {
	PollID uint64 `json:"poll_id"`
}

// GetContestant reads one contestant of a poll.
type GetContestant struct {
	PollID       uint64 `json:"poll_id"`
	ContestantID uint64 `json:"contestant_id"`
}

func (GetPolls) QueryName() string       { return "get_polls" }
func (GetPoll) QueryName() string        { return "get_poll" }
func (GetContestants) QueryName() string { return "get_contestants" }
func (GetContestant) QueryName() string  { return "get_contestant" }

func (GetPolls) isQuery()       {}
func (GetPoll) isQuery()        {}
func (GetContestants) isQuery() {}
func (GetContestant) isQuery()  {}

var commandDecoders = map[string]func(json.RawMessage) (Command, error){
	"create_poll": decodeAs[CreatePoll, Command],
	"update_poll": decodeAs[UpdatePoll, Command],
	"delete_poll": decodeAs[DeletePoll, Command],
	"contest":     decodeAs[Contest, Command],
	"vote":        decodeAs[Vote, Command],
}

var queryDecoders = map[string]func(json.RawMessage) (Query, error){
	"get_polls":       decodeAs[GetPolls, Query],
	"get_poll":        decodeAs[GetPoll, Query],
	"get_contestants": decodeAs[GetContestants, Query],
	"get_contestant":  decodeAs[GetContestant, Query],
}

// commandTags and queryTags map every accepted spelling of a variant tag
// (snake_case, PascalCase as the contract serializes it, camelCase as its
// JS clients send it) to the snake_case name.
var (
	commandTags = tagSpellings(commandDecoders)
	queryTags   = tagSpellings(queryDecoders)
)

// DecodeCommand decodes an externally tagged command envelope such as
// {"vote": {"poll_id": 1, "contestant_id": 2}}.
func DecodeCommand(raw []byte) (Command, error) {
	tag, body, err := splitEnvelope(raw)
	if err != nil {
		return nil, err
	}
	decode, ok := commandDecoders[commandTags[tag]]
	if !ok {
		return nil, errors.NewValidationError("unknown command", map[string]interface{}{
			"command": tag,
			"allowed": sortedKeys(commandDecoders),
		})
	}
	return decode(body)
}

// DecodeQuery decodes an externally tagged query envelope such as
// {"get_poll": {"id": 1}}.
func DecodeQuery(raw []byte) (Query, error) {
	tag, body, err := splitEnvelope(raw)
	if err != nil {
		return nil, err
	}
	decode, ok := queryDecoders[queryTags[tag]]
	if !ok {
		return nil, errors.NewValidationError("unknown query", map[string]interface{}{
			"query":   tag,
			"allowed": sortedKeys(queryDecoders),
		})
	}
	return decode(body)
}

func tagSpellings[V any](decoders map[string]V) map[string]string {
	tags := make(map[string]string, 3*len(decoders))
	for name := range decoders {
		pascal := snakeToPascal(name)
		tags[name] = name
		tags[pascal] = name
		tags[strings.ToLower(pascal[:1])+pascal[1:]] = name
	}
	return tags
}

func snakeToPascal(name string) string {
	var b strings.Builder
	for _, part := range strings.Split(name, "_") {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}

func splitEnvelope(raw []byte) (string, json.RawMessage, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", nil, errors.NewValidationError("message must be a JSON object", map[string]interface{}{
			"cause": err.Error(),
		})
	}
	if len(envelope) != 1 {
		return "", nil, errors.NewValidationError("message must have exactly one variant", map[string]interface{}{
			"variants": len(envelope),
		})
	}
	var (
		tag  string
		body json.RawMessage
	)
	for k, v := range envelope {
		tag, body = k, v
	}
	return tag, body, nil
}

func decodeAs[T any, I any](body json.RawMessage) (I, error) {
	var msg T
	var zero I
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null")) {
		if err := strictjson.Unmarshal(trimmed, &msg); err != nil {
			return zero, errors.NewValidationError("invalid message body", map[string]interface{}{
				"cause": err.Error(),
			})
		}
	}
	out, ok := any(msg).(I)
	if !ok {
		return zero, fmt.Errorf("%T does not implement %s", msg, reflect.TypeOf((*I)(nil)).Elem())
	}
	return out, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
