package objects

import "encoding/json"

// Decoding is best-effort throughout: a malformed or empty body yields an
// absent value, never an error. Callers assert on status and body presence
// as independent axes.

func decodeObject(body []byte) (*Object, bool) {
	if len(body) == 0 {
		return nil, false
	}
	var obj Object
	if err := json.Unmarshal(body, &obj); err != nil {
		return nil, false
	}
	// Any JSON object unmarshals into Object, including error envelopes
	// like {"error": "..."}. The id is what marks a body as an entity.
	if obj.ID == "" {
		return nil, false
	}
	return &obj, true
}

func decodeObjects(body []byte) ([]Object, bool) {
	if len(body) == 0 {
		return nil, false
	}
	var objs []Object
	if err := json.Unmarshal(body, &objs); err != nil {
		return nil, false
	}
	return objs, true
}

func decodeMessage(body []byte) (string, bool) {
	if len(body) == 0 {
		return "", false
	}
	var resp deleteResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", false
	}
	if resp.Message == nil {
		return "", false
	}
	return *resp.Message, true
}
