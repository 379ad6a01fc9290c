package token

// keywords maps program-mode spellings to keyword kinds. Command names and
// text-mode material never go through this table.
var keywords = map[string]Kind{
	"let":         KwLet,
	"let-inline":  KwLetInline,
	"let-block":   KwLetBlock,
	"let-math":    KwLetMath,
	"let-mutable": KwLetMutable,
	"module":      KwModule,
	"sig":         KwSig,
	"struct":      KwStruct,
	"end":         KwEnd,
	"open":        KwOpen,
	"direct":      KwDirect,
	"val":         KwVal,
	"type":        KwType,
	"in":          KwIn,
	"fun":         KwFun,
	"true":        KwTrue,
	"false":       KwFalse,
}

// LookupKeyword resolves an identifier spelling to its keyword kind.
// Returns Ident when the spelling is not a keyword.
func LookupKeyword(text string) Kind {
	if k, ok := keywords[text]; ok {
		return k
	}
	return Ident
}
