package engine

import (
	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"

	"cssrebase/sourcemap"
)

func init() {
	Register(tdewolffEngine{})
}

// tdewolffEngine walks CSS with the tdewolff lexer. It is token accurate:
// comments, strings and at-rule preludes never confuse declaration
// detection, and every value position is exact.
type tdewolffEngine struct{}

func (tdewolffEngine) Name() string {
	return DefaultName
}

func (tdewolffEngine) Process(resourcePath, content string, cfg Config) (Result, error) {
	lexer := css.NewLexer(parse.NewInputString(content))
	idx := indexLines(content)

	var (
		edits []edit

		offset     int
		depth      int  // brace nesting
		parens     int  // paren nesting, at-rule preludes carry colons too
		expectDecl bool // right after '{', '}' or ';'
		afterIdent bool // saw a property-like ident, colon pending
		inValue    bool
		valueStart int // -1 until the first significant value token
		valueEnd   int
	)

	// flush hands the captured value span to the transform callback and
	// records an edit when the text changed.
	flush := func() {
		if inValue && valueStart >= 0 && valueEnd > valueStart {
			value := content[valueStart:valueEnd]
			rewritten := cfg.Transform(value, idx.position(content, valueStart))
			if rewritten != value {
				edits = append(edits, edit{start: valueStart, end: valueEnd, text: rewritten})
			}
		}
		inValue = false
	}

	for {
		tt, data := lexer.Next()
		if tt == css.ErrorToken {
			flush()
			break
		}
		start := offset
		offset += len(data)

		switch tt {
		case css.WhitespaceToken, css.CommentToken:
			// never extends the span, trailing whitespace stays out

		case css.LeftBraceToken:
			// a capture hitting '{' was a selector with a pseudo class
			inValue = false
			depth++
			expectDecl = true
			afterIdent = false

		case css.RightBraceToken:
			flush()
			if depth > 0 {
				depth--
			}
			expectDecl = true
			afterIdent = false

		case css.SemicolonToken:
			flush()
			expectDecl = true
			afterIdent = false

		case css.ColonToken:
			if afterIdent {
				inValue = true
				valueStart = -1
				valueEnd = -1
				afterIdent = false
			} else if inValue && valueStart >= 0 {
				// legacy values like progid:... carry colons
				valueEnd = offset
			}

		case css.IdentToken, css.CustomPropertyNameToken:
			if !inValue && expectDecl && depth > 0 && parens == 0 {
				afterIdent = true
				expectDecl = false
			} else if inValue {
				if valueStart < 0 {
					valueStart = start
				}
				valueEnd = offset
			}

		default:
			switch tt {
			case css.LeftParenthesisToken, css.FunctionToken:
				parens++
			case css.RightParenthesisToken:
				if parens > 0 {
					parens--
				}
			}
			afterIdent = false
			if inValue {
				if valueStart < 0 {
					valueStart = start
				}
				valueEnd = offset
			}
		}
	}

	out := Result{Content: applyEdits(content, edits)}
	if cfg.OutputSourceMap {
		var m *sourcemap.SourceMap
		if cfg.InboundMap != nil {
			m = cfg.InboundMap.Clone()
		} else {
			m = identityMap(resourcePath, idx)
		}
		shiftMappings(m, content, edits, idx)
		out.Map = m
	}
	return out, nil
}
