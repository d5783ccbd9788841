package resolve

import (
	"iter"
	"strings"
)

// Token is one url(...) occurrence inside a declaration value. Start and End
// delimit the URI text between the parentheses, quotes included, so callers
// can splice a replacement without reparsing.
type Token struct {
	RawURI string // URI with query and hash already split off
	Quote  byte   // '"', '\'' or 0 for unquoted
	Query  string // "?..." or empty
	Hash   string // "#..." or empty
	Start  int    // offset of the quoted URI within the value
	End    int    // offset just past the quoted URI
}

// Uses returns the token body the way it appeared in the source, quotes and
// fragments included.
func (t Token) Uses(value string) string {
	return value[t.Start:t.End]
}

// Scan lazily yields resolvable url() tokens of one declaration value in
// source order. Data URIs, network-absolute URLs and empty references are
// never yielded. The sequence is restartable - Scan keeps no state between
// iterations.
func Scan(value string) iter.Seq[Token] {
	return func(yield func(Token) bool) {
		for from := 0; ; {
			i := indexURL(value, from)
			if i < 0 {
				return
			}
			open := i + len("url(")
			tok, next, ok := lexToken(value, open)
			from = next
			if !ok {
				continue
			}
			if skipURI(tok.RawURI) {
				continue
			}
			if !yield(tok) {
				return
			}
		}
	}
}

// indexURL finds the next "url(" that starts a function token, i.e. is not
// the tail of a longer identifier like "-moz-url(". Matching is done byte by
// byte so offsets stay in original-string coordinates - lowering the whole
// value first would shift them, some runes change byte length under case
// folding.
func indexURL(value string, from int) int {
	for i := from; i+4 <= len(value); i++ {
		if c := value[i]; c != 'u' && c != 'U' {
			continue
		}
		if !strings.EqualFold(value[i:i+4], "url(") {
			continue
		}
		if i > 0 && isIdentByte(value[i-1]) {
			continue
		}
		return i
	}
	return -1
}

func isIdentByte(c byte) bool {
	return c == '-' || c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

// lexToken reads one url() body starting right after the opening paren.
// Returns the token, the offset to continue scanning from and whether the
// body was well formed.
func lexToken(value string, open int) (Token, int, bool) {
	i := open
	for i < len(value) && (value[i] == ' ' || value[i] == '\t' || value[i] == '\n' || value[i] == '\r') {
		i++
	}
	if i >= len(value) {
		return Token{}, i, false
	}

	var tok Token
	switch value[i] {
	case '"', '\'':
		tok.Quote = value[i]
		end := strings.IndexByte(value[i+1:], value[i])
		if end < 0 {
			return Token{}, i + 1, false
		}
		tok.Start = i
		tok.End = i + 1 + end + 1
		tok.RawURI = value[i+1 : i+1+end]
	default:
		end := strings.IndexByte(value[i:], ')')
		if end < 0 {
			return Token{}, i, false
		}
		raw := strings.TrimRight(value[i:i+end], " \t\n\r")
		tok.Start = i
		tok.End = i + len(raw)
		tok.RawURI = raw
	}

	tok.RawURI, tok.Query, tok.Hash = splitFragments(tok.RawURI)
	return tok, tok.End, true
}

// splitFragments peels a trailing ?query and/or #hash off the URI. Candidate
// paths are always computed from the bare URI, fragments are reattached on
// rewrite only when configured.
func splitFragments(uri string) (string, string, string) {
	var query, hash string
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		hash = uri[i:]
		uri = uri[:i]
	}
	if i := strings.IndexByte(uri, '?'); i >= 0 {
		query = uri[i:]
		uri = uri[:i]
	}
	return uri, query, hash
}

// skipURI reports whether the reference must be passed through untouched:
// empty, data URI, fragment-only or network-absolute.
func skipURI(uri string) bool {
	if len(uri) == 0 || uri[0] == '#' {
		return true
	}
	if strings.HasPrefix(uri, "//") {
		return true
	}
	lower := strings.ToLower(uri)
	return strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(lower, "http:") ||
		strings.HasPrefix(lower, "https:")
}
