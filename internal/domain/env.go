package domain

import "strconv"

// Env is what the host supplies alongside every command.
type Env struct {
	Caller    Address
	BlockTime uint64 // unix seconds
}

// Attribute is one key/value pair of a command response.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Response is the outcome of a successful command.
type Response struct {
	Attributes []Attribute `json:"attributes"`
}

// NewResponse starts a response tagged with the command's action.
func NewResponse(action string) *Response {
	return &Response{Attributes: []Attribute{{Key: "action", Value: action}}}
}

// Add appends an attribute and returns r for chaining.
func (r *Response) Add(key, value string) *Response {
	r.Attributes = append(r.Attributes, Attribute{Key: key, Value: value})
	return r
}

// AddUint appends a numeric attribute.
func (r *Response) AddUint(key string, value uint64) *Response {
	return r.Add(key, strconv.FormatUint(value, 10))
}

// Attr returns the first attribute named key.
func (r *Response) Attr(key string) (string, bool) {
	for _, a := range r.Attributes {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// Action returns the value of the action attribute.
func (r *Response) Action() string {
	v, _ := r.Attr("action")
	return v
}
