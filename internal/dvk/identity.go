package dvk

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Identity is a record identifier, always stored uppercase.
type Identity string

// NewIdentity trims and uppercases value.
func NewIdentity(value string) Identity {
	return Identity(strings.ToUpper(strings.TrimSpace(value)))
}

func (id Identity) String() string {
	return string(id)
}

// GenerateID derives a stable identifier from seed values, typically the page
// URL and title of a downloaded work. The result is prefix followed by a
// ten digit code.
func GenerateID(prefix string, seeds ...string) Identity {
	h := xxh3.New()
	for _, seed := range seeds {
		_, _ = h.WriteString(seed)
		_, _ = h.Write([]byte{0})
	}
	return NewIdentity(fmt.Sprintf("%s%010d", prefix, h.Sum64()%10_000_000_000))
}

func identitiesToStrings(ids []Identity) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = string(id)
	}
	return out
}

// normalizeLinks converts raw link values. A nil input stays nil (no link);
// any blank entry collapses the whole list to the empty boundary list.
func normalizeLinks(values []string) []Identity {
	if values == nil {
		return nil
	}
	out := make([]Identity, 0, len(values))
	for _, value := range values {
		id := NewIdentity(value)
		if id == "" {
			return []Identity{}
		}
		out = append(out, id)
	}
	return out
}

func copyIdentities(ids []Identity) []Identity {
	if ids == nil {
		return nil
	}
	out := make([]Identity, len(ids))
	copy(out, ids)
	return out
}
