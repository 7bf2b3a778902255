package types

import (
	"crypto/sha1"
	"database/sql/driver"
	"encoding/hex"
	"fmt"
	"strconv"
)

// SourceID identifies stylesheet content by its Git blob hash, so files read
// from disk and blobs read from a repository tree share one identity.
type SourceID [20]byte

// ComputeSourceID returns SHA-1("blob {len}\0{content}").
func ComputeSourceID(content []byte) SourceID {
	h := sha1.New()
	h.Write([]byte("blob " + strconv.Itoa(len(content)) + "\x00"))
	h.Write(content)

	var id SourceID
	copy(id[:], h.Sum(nil))
	return id
}

// Hex returns the 40-character hex form.
func (id SourceID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id SourceID) String() string {
	return id.Hex()
}

// IsZero reports whether the id was never computed.
func (id SourceID) IsZero() bool {
	return id == SourceID{}
}

// ParseSourceID parses the 40-character hex form.
func ParseSourceID(s string) (SourceID, error) {
	var id SourceID
	if len(s) != 2*len(id) {
		return id, fmt.Errorf("invalid source ID length: expected %d, got %d", 2*len(id), len(s))
	}
	if _, err := hex.Decode(id[:], []byte(s)); err != nil {
		return SourceID{}, fmt.Errorf("invalid source ID: %w", err)
	}
	return id, nil
}

// MarshalText implements encoding.TextMarshaler (and with it JSON).
func (id SourceID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (id *SourceID) UnmarshalText(text []byte) error {
	parsed, err := ParseSourceID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer.
func (id SourceID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

// Scan implements sql.Scanner.
func (id *SourceID) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		return id.UnmarshalText([]byte(v))
	case []byte:
		return id.UnmarshalText(v)
	case nil:
		return fmt.Errorf("cannot scan nil into SourceID")
	default:
		return fmt.Errorf("cannot scan type %T into SourceID", value)
	}
}
