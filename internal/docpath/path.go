package docpath

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
)

// plainKey matches keys that can be written without quoting.
var plainKey = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// String serializes the path into its canonical form.
func (p Path) String() string {
	var sb strings.Builder
	for i, seg := range p {
		if plainKey.MatchString(seg.Name) {
			if i > 0 {
				sb.WriteRune('.')
			}
			sb.WriteString(seg.Name)
		} else {
			sb.WriteString("[")
			sb.WriteString(strconv.Quote(seg.Name))
			sb.WriteString("]")
		}
		if seg.HasIndex() {
			fmt.Fprintf(&sb, "[%d]", seg.Index)
		}
	}
	return sb.String()
}

// Equal checks two paths for segment-wise equality.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// Parse creates a Path from its canonical string representation.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	var path Path
	rest := raw
	for rest != "" {
		var seg Segment
		var err error

		switch {
		case strings.HasPrefix(rest, `["`):
			seg, rest, err = parseQuoted(rest)
		case len(path) == 0:
			seg, rest, err = parsePlain(rest)
		case strings.HasPrefix(rest, "."):
			seg, rest, err = parsePlain(rest[1:])
		default:
			err = fmt.Errorf("unexpected %q", rest)
		}
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", raw, err)
		}

		seg.Index, rest, err = parseIndex(rest)
		if err != nil {
			return nil, fmt.Errorf("invalid path %q: %w", raw, err)
		}
		path = append(path, seg)
	}
	return path, nil
}

func parsePlain(s string) (Segment, string, error) {
	end := strings.IndexAny(s, ".[")
	if end == -1 {
		end = len(s)
	}
	name := s[:end]
	if name == "" {
		return Segment{}, "", fmt.Errorf("empty segment")
	}
	if !plainKey.MatchString(name) {
		return Segment{}, "", fmt.Errorf("invalid segment %q, quote it as [%q]", name, name)
	}
	return Key(name), s[end:], nil
}

func parseQuoted(s string) (Segment, string, error) {
	quoted, err := strconv.QuotedPrefix(s[1:])
	if err != nil {
		return Segment{}, "", fmt.Errorf("unterminated quoted segment")
	}
	name, err := strconv.Unquote(quoted)
	if err != nil {
		return Segment{}, "", err
	}
	rest := s[1+len(quoted):]
	if !strings.HasPrefix(rest, "]") {
		return Segment{}, "", fmt.Errorf("missing ']' after quoted segment %q", name)
	}
	return Key(name), rest[1:], nil
}

// parseIndex consumes an optional `[n]` suffix.
func parseIndex(s string) (int, string, error) {
	if !strings.HasPrefix(s, "[") || strings.HasPrefix(s, `["`) {
		return -1, s, nil
	}
	end := strings.IndexByte(s, ']')
	if end == -1 {
		return -1, "", fmt.Errorf("missing ']'")
	}
	n, err := strconv.Atoi(s[1:end])
	if err != nil || n < 0 {
		return -1, "", fmt.Errorf("invalid index %q", s[1:end])
	}
	return n, s[end+1:], nil
}
