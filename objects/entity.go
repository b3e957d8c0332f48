package objects

import (
	"net/http"
	"time"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Attributes is the free-form attribute map attached to an object. Values
// are kept as tagged JSON values so a round trip through the remote API
// preserves their types: a number stays a number, a boolean stays a boolean.
// The client never validates or interprets the map.
type Attributes map[string]ldvalue.Value

// Object is the entity managed by the remote collection.
type Object struct {
	// ID is assigned by the remote system on create and is immutable.
	ID string `json:"id"`

	// Name is caller-assigned and not required to be unique.
	Name string `json:"name"`

	// Data is the opaque attribute map; nil when the server reports null.
	Data Attributes `json:"data"`

	// CreatedAt and UpdatedAt are server-assigned epoch-millisecond
	// timestamps. UpdatedAt is set only by updates.
	CreatedAt *float64 `json:"createdAt"`
	UpdatedAt *float64 `json:"updatedAt"`
}

// writeRequest is the wire shape for create and update calls.
type writeRequest struct {
	Name string     `json:"name"`
	Data Attributes `json:"data,omitempty"`
}

// deleteResponse is the advisory body returned by delete calls.
type deleteResponse struct {
	Message *string `json:"message"`
}

// Response is the outcome of one HTTP exchange: a status code plus the raw
// body. Decoding into typed results happens afterwards and is best-effort.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
	Elapsed    time.Duration
}

// Result holds the terminal status of an operation on a single object.
// Object is nil when the body was absent or not decodable; that is a
// distinct, assertable condition from a non-2xx status.
type Result struct {
	StatusCode int
	Object     *Object
	Raw        []byte
}

// OK reports whether the status is in the 2xx range.
func (r Result) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// ListResult holds the terminal status of a collection read. Decoded is
// false when the body could not be parsed as an object sequence.
type ListResult struct {
	StatusCode int
	Objects    []Object
	Decoded    bool
	Raw        []byte
}

// OK reports whether the status is in the 2xx range.
func (r ListResult) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// DeleteResult holds the terminal status of a delete. Message is advisory
// text from the server and may be empty.
type DeleteResult struct {
	StatusCode int
	Message    string
	Raw        []byte
}

// Succeeded reports whether the server acknowledged the delete. The remote
// system's exact code is not contractually fixed, so OK, Accepted and
// No Content all count.
func (r DeleteResult) Succeeded() bool {
	switch r.StatusCode {
	case http.StatusOK, http.StatusAccepted, http.StatusNoContent:
		return true
	}
	return false
}
