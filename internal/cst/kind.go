package cst

// Kind discriminates concrete syntax tree nodes.
type Kind uint8

const (
	// KindInvalid marks a zero-value node.
	KindInvalid Kind = iota
	// KindProgram is the root node of a document.
	KindProgram
	// KindHeader is a single @require: or @import: line.
	KindHeader
	// KindLet is a plain value binding.
	KindLet
	// KindLetInline defines an inline command.
	KindLetInline
	// KindLetBlock defines a block command.
	KindLetBlock
	// KindLetMath defines a math command.
	KindLetMath
	// KindLetMutable defines a mutable binding.
	KindLetMutable
	// KindModule is a module definition with optional signature.
	KindModule
	// KindSig is the signature part of a module.
	KindSig
	// KindSigVal is a val entry inside a signature.
	KindSigVal
	// KindSigDirect is a direct entry inside a signature.
	KindSigDirect
	// KindSigType is a type entry inside a signature.
	KindSigType
	// KindStruct is the structure body of a module.
	KindStruct
	// KindOpen is an open statement.
	KindOpen
	// KindParams groups the parameter names of a binding.
	KindParams
	// KindParam is a single parameter name.
	KindParam
	// KindExpr is a program-mode expression sequence.
	KindExpr
	// KindTextBlock is a braced text-mode region.
	KindTextBlock
	// KindMathBlock is a ${...} math-mode region.
	KindMathBlock
	// KindInlineCmdApp applies an inline command inside text.
	KindInlineCmdApp
	// KindBlockCmdApp applies a block command inside text.
	KindBlockCmdApp
	// KindMathCmdApp applies a command inside math.
	KindMathCmdApp
	// KindCmdArg is one argument of a command application.
	KindCmdArg
	// KindName wraps a single identifier or command-name token.
	KindName
	// KindToken wraps a keyword or punctuation token that carries no
	// name of its own.
	KindToken
	// KindLiteral wraps a literal token.
	KindLiteral
	// KindError covers tokens skipped during recovery.
	KindError
)

func (k Kind) String() string {
	switch k {
	case KindInvalid:
		return "Invalid"
	case KindProgram:
		return "Program"
	case KindHeader:
		return "Header"
	case KindLet:
		return "Let"
	case KindLetInline:
		return "LetInline"
	case KindLetBlock:
		return "LetBlock"
	case KindLetMath:
		return "LetMath"
	case KindLetMutable:
		return "LetMutable"
	case KindModule:
		return "Module"
	case KindSig:
		return "Sig"
	case KindSigVal:
		return "SigVal"
	case KindSigDirect:
		return "SigDirect"
	case KindSigType:
		return "SigType"
	case KindStruct:
		return "Struct"
	case KindOpen:
		return "Open"
	case KindParams:
		return "Params"
	case KindParam:
		return "Param"
	case KindExpr:
		return "Expr"
	case KindTextBlock:
		return "TextBlock"
	case KindMathBlock:
		return "MathBlock"
	case KindInlineCmdApp:
		return "InlineCmdApp"
	case KindBlockCmdApp:
		return "BlockCmdApp"
	case KindMathCmdApp:
		return "MathCmdApp"
	case KindCmdArg:
		return "CmdArg"
	case KindName:
		return "Name"
	case KindToken:
		return "Token"
	case KindLiteral:
		return "Literal"
	case KindError:
		return "Error"
	default:
		return "Kind(?)"
	}
}

// IsBinding reports whether the node kind introduces a named binding.
func (k Kind) IsBinding() bool {
	switch k {
	case KindLet, KindLetInline, KindLetBlock, KindLetMath, KindLetMutable, KindModule:
		return true
	default:
		return false
	}
}
