// Package cursor encodes and decodes opaque keyset-pagination tokens.
//
// A token carries the (created_at, poll_id) position of the last emitted feed
// row. Decoding never fails a request: malformed, truncated, or non-JSON
// tokens degrade to "no cursor" and the caller serves the first page.
package cursor

import (
	"encoding/base64"
	"encoding/json"
	"strings"
	"time"
)

// Position is a decoded pagination position in the (created_at, poll_id)
// total order.
type Position struct {
	CreatedAt time.Time
	PollID    string
}

type tokenPayload struct {
	CreatedAt string `json:"createdAt"`
	PollID    string `json:"pollId"`
}

// Encode produces an opaque token for the given position. Clients must not
// infer ordering from the token bytes.
func Encode(createdAt time.Time, pollID string) string {
	raw, _ := json.Marshal(tokenPayload{
		CreatedAt: createdAt.UTC().Format(time.RFC3339Nano),
		PollID:    pollID,
	})
	return base64.RawURLEncoding.EncodeToString(raw)
}

// Decode parses a token back into a position. The second return value is
// false for empty or undecodable tokens; callers treat that as "start of
// feed", never as an error.
func Decode(token string) (Position, bool) {
	if strings.TrimSpace(token) == "" {
		return Position{}, false
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Position{}, false
	}
	var payload tokenPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Position{}, false
	}
	if payload.CreatedAt == "" || payload.PollID == "" {
		return Position{}, false
	}
	createdAt, err := time.Parse(time.RFC3339Nano, payload.CreatedAt)
	if err != nil {
		return Position{}, false
	}
	return Position{
		CreatedAt: createdAt.UTC(),
		PollID:    payload.PollID,
	}, true
}
