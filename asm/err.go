package asm

import (
	"errors"

	"github.com/battelasm/basm/translate"
)

var f = translate.From

var (
	// Structural errors
	ErrHeaderMissing = errors.New(f("missing header line"))

	// Directive errors
	ErrRepeatNested = errors.New(f("#repeat inside #repeat prohibited"))
	ErrRepeatStarts = errors.New(f("#starts inside #repeat prohibited"))
	ErrRepeatOpen   = errors.New(f("#repeat block not completed before end of input"))

	// Configuration errors
	ErrOptionVarTable = errors.New(f("variable table requires variables"))
	ErrProgramTooBig  = errors.New(f("program does not fit in the address space"))
)

// ErrSyntax wraps an error with the 1-based source line it occurred on.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrHeader is a malformed header line.
type ErrHeader string

func (err ErrHeader) Error() string {
	return f("expected '<name> <offset>', got '%v'", string(err))
}

// ErrHeaderName is a program name that is not a valid identifier.
type ErrHeaderName string

func (err ErrHeaderName) Error() string {
	return f("'%v' is not a valid identifier", string(err))
}

// ErrHeaderOffset is an offset that is neither a non-negative integer
// nor the sentinel -1.
type ErrHeaderOffset string

func (err ErrHeaderOffset) Error() string {
	return f("'%v' is not a valid offset", string(err))
}

// ErrUnknownInstruction is an unrecognized mnemonic.
type ErrUnknownInstruction string

func (err ErrUnknownInstruction) Error() string {
	return f("unknown instruction: '%v'", string(err))
}

// ErrRegisterUnknown is a token that names no register.
type ErrRegisterUnknown string

func (err ErrRegisterUnknown) Error() string {
	return f("unknown register: '%v'", string(err))
}

// ErrVariableName is a token that cannot be used as a variable name.
type ErrVariableName string

func (err ErrVariableName) Error() string {
	return f("invalid variable name: '%v'", string(err))
}

// ErrVariableLimit reports symbol table exhaustion.
type ErrVariableLimit string

func (err ErrVariableLimit) Error() string {
	return f("too many variables: '%v'", string(err))
}

// ErrVariableUnbound is a #free target that no slot currently holds.
type ErrVariableUnbound string

func (err ErrVariableUnbound) Error() string {
	return f("trying to free the variable %v which isn't in use", string(err))
}

// ErrUnknownConstant is an unrecognized compile-time constant name.
type ErrUnknownConstant string

func (err ErrUnknownConstant) Error() string {
	return f("unknown compile-time constant '%v'", string(err))
}

// ErrParseExpression is a $(...) expression that failed to evaluate.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}

// ErrNumberSyntax is a token that is not a valid literal of its base.
type ErrNumberSyntax struct {
	Token string
	Base  string
}

func (err ErrNumberSyntax) Error() string {
	return f("invalid %v number: %v", err.Base, err.Token)
}

// ErrValueRange is a parsed value that does not fit its operand field.
// It reports both the original token and the parsed magnitude.
type ErrValueRange struct {
	Token string
	Value int
	Limit int
}

func (err ErrValueRange) Error() string {
	return f("number not in range [0, %v): '%v' -> %v", err.Limit, err.Token, err.Value)
}

// ErrArity is the wrong number of operands for an operation.
type ErrArity struct {
	Expected int
	Many     bool
}

func (err ErrArity) Error() string {
	if err.Many {
		return f("too many parameters (%v expected)", err.Expected)
	}
	return f("too few parameters (%v expected)", err.Expected)
}

// ErrDirectiveSyntax is a recognized directive with malformed arguments.
type ErrDirectiveSyntax string

func (err ErrDirectiveSyntax) Error() string {
	return f("%v directive syntax", string(err))
}

// ErrStartsBackward is a #starts directive naming an already-passed slot.
type ErrStartsBackward struct {
	Current int
	Wanted  int
}

func (err ErrStartsBackward) Error() string {
	return f("#starts directive wants to go back (current instruction: %v, wanted instruction: %v)", err.Current, err.Wanted)
}

// ErrRepeatLength is a #repeat window exceeding the buffer capacity.
type ErrRepeatLength int

func (err ErrRepeatLength) Error() string {
	return f("#repeat window %v exceeds capacity %v", int(err), RepeatLimit)
}

// ErrCountMismatch signals a defect in the pre-scanner, not a user
// error: the dry-run count and the emitted word count disagree.
type ErrCountMismatch struct {
	Counted int
	Emitted int
}

func (err ErrCountMismatch) Error() string {
	return f("internal: pre-scan counted %v instructions but %v were emitted", err.Counted, err.Emitted)
}
