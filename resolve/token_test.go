package resolve_test

import (
	"reflect"
	"testing"

	"cssrebase/resolve"
)

func collect(value string) []resolve.Token {
	var toks []resolve.Token
	for tok := range resolve.Scan(value) {
		toks = append(toks, tok)
	}
	return toks
}

func TestScan_QuoteForms(t *testing.T) {
	cases := []struct {
		name  string
		value string
		uri   string
		quote byte
	}{
		{"unquoted", "url(img/a.png)", "img/a.png", 0},
		{"double quoted", `url("img/a.png")`, "img/a.png", '"'},
		{"single quoted", "url('img/a.png')", "img/a.png", '\''},
		{"inner whitespace", "url(  img/a.png  )", "img/a.png", 0},
		{"uppercase function", "URL(img/a.png)", "img/a.png", 0},
		{"inside shorthand", "#fff url(img/a.png) no-repeat", "img/a.png", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks := collect(tc.value)
			if len(toks) != 1 {
				t.Fatalf("expected 1 token, got %d", len(toks))
			}
			if toks[0].RawURI != tc.uri {
				t.Errorf("expected uri %q, got %q", tc.uri, toks[0].RawURI)
			}
			if toks[0].Quote != tc.quote {
				t.Errorf("expected quote %q, got %q", tc.quote, toks[0].Quote)
			}
		})
	}
}

func TestScan_OffsetsWithCaseFoldingRunes(t *testing.T) {
	// runes like ẞ and İ change byte length under case folding, offsets must
	// stay in original-string coordinates regardless
	cases := []struct {
		name  string
		value string
	}{
		{"shrinking rune before token", "ẞ url(img/a.png)"},
		{"growing rune before token", "İ url(img/a.png)"},
		{"rune in sibling content", `"ẞ" url(img/a.png) no-repeat`},
		{"mixed case function", "ẞ UrL(img/a.png)"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks := collect(tc.value)
			if len(toks) != 1 {
				t.Fatalf("expected 1 token, got %d: %+v", len(toks), toks)
			}
			if toks[0].RawURI != "img/a.png" {
				t.Errorf("expected uri %q, got %q", "img/a.png", toks[0].RawURI)
			}
			if got := toks[0].Uses(tc.value); got != "img/a.png" {
				t.Errorf("Start/End cover %q", got)
			}
		})
	}
}

func TestScan_SpliceOffsets(t *testing.T) {
	value := `#fff url( "img/a.png" ) no-repeat`
	toks := collect(value)
	if len(toks) != 1 {
		t.Fatalf("expected 1 token, got %d", len(toks))
	}
	if got := toks[0].Uses(value); got != `"img/a.png"` {
		t.Errorf("Start/End cover %q", got)
	}
}

func TestScan_Skips(t *testing.T) {
	cases := []struct {
		name  string
		value string
	}{
		{"empty", "url()"},
		{"blank", "url(  )"},
		{"fragment only", "url(#gradient)"},
		{"data uri", "url(data:image/png;base64,iVBORw0KGgo=)"},
		{"http", "url(http://cdn.example.com/a.png)"},
		{"https", `url("https://cdn.example.com/a.png")`},
		{"protocol relative", "url(//cdn.example.com/a.png)"},
		{"longer ident tail", "-custom-url(img/a.png)"},
		{"no urls at all", "1px solid red"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if toks := collect(tc.value); len(toks) != 0 {
				t.Errorf("expected no tokens, got %d: %+v", len(toks), toks)
			}
		})
	}
}

func TestScan_Fragments(t *testing.T) {
	cases := []struct {
		name  string
		value string
		uri   string
		query string
		hash  string
	}{
		{"query", "url(img/a.png?v=3)", "img/a.png", "?v=3", ""},
		{"hash", "url(fonts/icons.woff#iefix)", "fonts/icons.woff", "", "#iefix"},
		{"query and hash", "url(fonts/icons.eot?v=2#iefix)", "fonts/icons.eot", "?v=2", "#iefix"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			toks := collect(tc.value)
			if len(toks) != 1 {
				t.Fatalf("expected 1 token, got %d", len(toks))
			}
			tok := toks[0]
			if tok.RawURI != tc.uri || tok.Query != tc.query || tok.Hash != tc.hash {
				t.Errorf("expected (%q %q %q), got (%q %q %q)",
					tc.uri, tc.query, tc.hash, tok.RawURI, tok.Query, tok.Hash)
			}
		})
	}
}

func TestScan_MultipleTokens(t *testing.T) {
	value := `url(a.png), url("b.png"), url(data:image/gif;base64,R0lGOD), url(c.png)`

	toks := collect(value)
	if len(toks) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(toks))
	}
	for i, want := range []string{"a.png", "b.png", "c.png"} {
		if toks[i].RawURI != want {
			t.Errorf("token %d: expected %q, got %q", i, want, toks[i].RawURI)
		}
	}
}

func TestScan_Restartable(t *testing.T) {
	seq := resolve.Scan("url(a.png) url(b.png?v=1)")

	var first, second []resolve.Token
	for tok := range seq {
		first = append(first, tok)
	}
	for tok := range seq {
		second = append(second, tok)
	}

	if len(first) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(first))
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass differs\nfirst:  %+v\nsecond: %+v", first, second)
	}
}
