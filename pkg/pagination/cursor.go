package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"time"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// Cursor is a keyset position: rows are ordered by (CreatedAt, ID).
type Cursor struct {
	CreatedAt time.Time
	ID        int64
}

func (c Cursor) Encode() *string {
	b, _ := json.Marshal(c)
	s := base64.RawURLEncoding.EncodeToString(b)
	return &s
}

// Decode returns nil for a nil or empty cursor.
func Decode(s *string) (*Cursor, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	data, err := base64.RawURLEncoding.DecodeString(*s)
	if err != nil {
		return nil, errors.Join(ErrInvalidCursor, err)
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errors.Join(ErrInvalidCursor, err)
	}
	if c.ID <= 0 {
		return nil, ErrInvalidCursor
	}
	return &c, nil
}
