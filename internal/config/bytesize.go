package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"
)

// ByteSize is a byte count that may be written either as an integer or as a
// humanized string such as "500GB" or "1.5 TiB".
type ByteSize int64

func (b *ByteSize) UnmarshalYAML(node *yaml.Node) error {
	var n int64
	if err := node.Decode(&n); err == nil {
		*b = ByteSize(n)
		return nil
	}

	var s string
	if err := node.Decode(&s); err != nil {
		return fmt.Errorf("byte size: %w", err)
	}

	v, err := ParseByteSize(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// ParseByteSize parses an integer or humanized size. A leading minus is kept
// so validation can report negative values.
func ParseByteSize(s string) (ByteSize, error) {
	s = strings.TrimSpace(s)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = strings.TrimPrefix(s, "-")
	}

	u, err := humanize.ParseBytes(s)
	if err != nil {
		return 0, fmt.Errorf("parsing byte size %q: %w", s, err)
	}
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("byte size %q exceeds %s", s, humanize.IBytes(math.MaxInt64))
	}

	v := ByteSize(u)
	if neg {
		v = -v
	}
	return v, nil
}

func (b ByteSize) String() string {
	if b < 0 {
		return "-" + humanize.IBytes(uint64(-b))
	}
	return humanize.IBytes(uint64(b))
}
