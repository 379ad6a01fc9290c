package token

import "testing"

func TestLookupKeyword(t *testing.T) {
	cases := []struct {
		text string
		want Kind
	}{
		{"let", KwLet},
		{"let-inline", KwLetInline},
		{"let-block", KwLetBlock},
		{"let-math", KwLetMath},
		{"module", KwModule},
		{"direct", KwDirect},
		{"pangram", Ident},
		{"let-", Ident},
	}
	for _, tc := range cases {
		if got := LookupKeyword(tc.text); got != tc.want {
			t.Errorf("LookupKeyword(%q) = %v, want %v", tc.text, got, tc.want)
		}
	}
}

func TestStatementStarter(t *testing.T) {
	for _, k := range []Kind{KwLet, KwLetInline, KwLetBlock, KwLetMath, KwModule, KwOpen, KwIn, HeaderRequire} {
		if !StatementStarter(k) {
			t.Errorf("%v should start a statement", k)
		}
	}
	for _, k := range []Kind{Ident, Cmd, LBrace, Assign, EOF} {
		if StatementStarter(k) {
			t.Errorf("%v should not start a statement", k)
		}
	}
}

func TestTriviaIsBlankLine(t *testing.T) {
	if (Trivia{Kind: TriviaNewline, Text: "\n"}).IsBlankLine() {
		t.Error("single newline is not a blank line")
	}
	if !(Trivia{Kind: TriviaNewline, Text: "\n\n"}).IsBlankLine() {
		t.Error("two newlines separate paragraphs")
	}
	if (Trivia{Kind: TriviaComment, Text: "% x\n\n"}).IsBlankLine() {
		t.Error("comments never count as blank lines")
	}
}
