package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano

const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Cursor is the position of the last row of a page. Lists are ordered by
// (date, seq) descending, so the next page starts strictly after this pair.
type Cursor struct {
	Date time.Time
	Seq  int64
}

// After reports whether a row at (date, seq) comes after the cursor in descending order.
func (c Cursor) After(date time.Time, seq int64) bool {
	if date.Equal(c.Date) {
		return seq < c.Seq
	}
	return date.Before(c.Date)
}

// EncodeToken creates an opaque token from a document date and its insertion sequence.
func EncodeToken(date time.Time, seq int64) string {
	tokenStr := fmt.Sprintf("%s|%d", date.UTC().Format(timeFormat), seq)
	return base64.RawURLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses a token produced by EncodeToken.
func DecodeToken(token string) (Cursor, error) {
	decodedBytes, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return Cursor{}, fmt.Errorf("invalid pagination token format (split)")
	}

	date, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (date parse): %w", err)
	}
	seq, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Cursor{}, fmt.Errorf("invalid pagination token format (seq parse): %w", err)
	}
	return Cursor{Date: date, Seq: seq}, nil
}

// ClampLimit applies the default and upper bound to a requested page size.
func ClampLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}
