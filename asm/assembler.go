package asm

import (
	"bufio"
	"io"
	"math/rand/v2"
	"strconv"
	"strings"
)

const (
	RepeatLimit = 64   // Maximum #repeat window length.
	OffsetLimit = 1024 // Address space for sentinel offset placement.
	OffsetAny   = -1   // Header offset sentinel: place anywhere.
)

// delimiters separating tokens within an instruction line. Commas are
// pure whitespace, so "ADD R1, R0" and "ADD R1 R0" tokenize identically.
const delimiters = " ,\t\r"

// Options configure assembly and code generation.
type Options struct {
	Comments  bool // Echo each source line as a trailing comment.
	VarTable  bool // Append the variable binding table. Requires Variables.
	Decimal   bool // Render words as decimal instead of binary literals.
	Variables bool // Allow named variables as register operands.
}

// Check validates option consistency.
func (opts Options) Check() error {
	if opts.VarTable && !opts.Variables {
		return ErrOptionVarTable
	}
	return nil
}

// DefaultOptions are the options of a plain run: commented binary
// output with variables enabled.
func DefaultOptions() Options {
	return Options{Comments: true, Variables: true}
}

// Assembler assembles BattelASM source into a Program. The zero value
// disallows variables; use Options to enable them.
type Assembler struct {
	Options Options

	// PlaceOffset resolves the sentinel header offset -1 to a concrete
	// value such that offset+size <= OffsetLimit. Left nil, placement
	// is uniformly random.
	PlaceOffset func(size int) int

	regs *RegisterFile
	prog *Program
	size int // pre-scanned program size
	num  int // instructions emitted so far

	repeat struct {
		pending int // words still to capture; 0 = no window open
		times   int
		buf     []Entry
	}
}

// countInstructions dry-runs the line list to determine how many words
// the main pass will emit. The count starts at -1 because the header
// line, consumed separately by the main pass, is counted here like any
// other line. Structural only: no opcode validation happens here.
func countInstructions(lines []string) (int, error) {
	count := -1
	pending := 0

	for n, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || line[0] == ';' {
			continue
		}
		if line[0] == '#' {
			fields := strings.Fields(line)
			switch strings.ToLower(fields[0]) {
			case "#starts":
				if pending > 0 {
					return 0, &ErrSyntax{LineNo: n + 1, Line: raw, Err: ErrRepeatStarts}
				}
				if len(fields) >= 2 {
					if v, err := strconv.Atoi(fields[1]); err == nil {
						count = v
					}
				}
			case "#repeat":
				if pending > 0 {
					return 0, &ErrSyntax{LineNo: n + 1, Line: raw, Err: ErrRepeatNested}
				}
				if len(fields) >= 3 {
					w, werr := strconv.Atoi(fields[1])
					t, terr := strconv.Atoi(fields[2])
					if werr == nil && terr == nil && w > 0 && t > 0 {
						count += w * (t - 1)
						pending = w
					}
				}
			}
			continue
		}

		count++
		if pending > 0 {
			pending--
		}
	}

	return count, nil
}

// Parse assembles a complete source stream. The input is materialized
// into lines once, so the count pass and the encode pass see the same
// sequence without needing a seekable stream.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {
	if err := asm.Options.Check(); err != nil {
		return nil, err
	}

	var lines []string
	scanner := bufio.NewScanner(input)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	asm.regs = NewRegisterFile()
	asm.num = 0
	asm.repeat.pending = 0
	asm.repeat.times = 0
	asm.repeat.buf = asm.repeat.buf[:0]

	asm.size, err = countInstructions(lines)
	if err != nil {
		return nil, err
	}

	header := -1
	for n, line := range lines {
		if strings.TrimSpace(line) != "" {
			header = n
			break
		}
	}
	if header == -1 {
		return nil, ErrHeaderMissing
	}

	name, offset, err := parseHeader(lines[header])
	if err != nil {
		return nil, &ErrSyntax{LineNo: header + 1, Line: lines[header], Err: err}
	}
	asm.prog = &Program{Name: name, Offset: offset}

	for n := header + 1; n < len(lines); n++ {
		if err := asm.parseLine(lines[n]); err != nil {
			return nil, &ErrSyntax{LineNo: n + 1, Line: lines[n], Err: err}
		}
	}

	if asm.repeat.pending > 0 {
		return nil, ErrRepeatOpen
	}

	if asm.num != asm.size {
		return nil, &ErrCountMismatch{Counted: asm.size, Emitted: asm.num}
	}
	asm.prog.Size = asm.num

	if asm.prog.Offset == OffsetAny {
		if asm.num > OffsetLimit {
			return nil, ErrProgramTooBig
		}
		place := asm.PlaceOffset
		if place == nil {
			place = func(size int) int { return rand.IntN(OffsetLimit - size + 1) }
		}
		asm.prog.Offset = place(asm.num)
	}

	asm.prog.Bindings = asm.regs.Bindings()

	return asm.prog, nil
}

// parseHeader splits the mandatory "<name> <offset>" line.
func parseHeader(line string) (name string, offset int, err error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return "", 0, ErrHeader(line)
	}

	name = fields[0]
	if !validIdentifier(name) {
		return "", 0, ErrHeaderName(name)
	}

	offset, aerr := strconv.Atoi(fields[1])
	if aerr != nil || offset < OffsetAny {
		return "", 0, ErrHeaderOffset(fields[1])
	}

	return name, offset, nil
}

// validIdentifier reports whether the name is usable as a C identifier.
func validIdentifier(name string) bool {
	for n, c := range name {
		switch {
		case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case c >= '0' && c <= '9':
			if n == 0 {
				return false
			}
		default:
			return false
		}
	}
	return name != ""
}

// parseLine classifies and processes one source line.
func (asm *Assembler) parseLine(raw string) error {
	line := strings.TrimSpace(raw)
	if line == "" {
		return nil
	}
	if line[0] == '#' {
		return asm.parseDirective(line)
	}
	return asm.parseInstruction(raw)
}

// parseDirective handles the three recognized directive forms.
// Unrecognized directive prefixes are inert.
func (asm *Assembler) parseDirective(line string) error {
	fields := strings.Fields(line)

	switch strings.ToLower(fields[0]) {
	case "#starts":
		if asm.repeat.pending > 0 {
			return ErrRepeatStarts
		}
		if len(fields) < 2 {
			return ErrDirectiveSyntax("#starts")
		}
		wanted, err := strconv.Atoi(fields[1])
		if err != nil {
			return ErrDirectiveSyntax("#starts")
		}
		if wanted < asm.num {
			return &ErrStartsBackward{Current: asm.num, Wanted: wanted}
		}
		for asm.num < wanted {
			asm.pad()
		}

	case "#free":
		if len(fields) < 2 {
			return ErrDirectiveSyntax("#free")
		}
		return asm.regs.Free(fields[1])

	case "#repeat":
		if asm.repeat.pending > 0 {
			return ErrRepeatNested
		}
		if len(fields) < 3 {
			return ErrDirectiveSyntax("#repeat")
		}
		w, werr := strconv.Atoi(fields[1])
		t, terr := strconv.Atoi(fields[2])
		if werr != nil || terr != nil || w < 1 || t < 1 {
			return ErrDirectiveSyntax("#repeat")
		}
		if w > RepeatLimit {
			return ErrRepeatLength(w)
		}
		asm.repeat.pending = w
		asm.repeat.times = t
		asm.repeat.buf = asm.repeat.buf[:0]
	}

	return nil
}

// parseInstruction expands, tokenizes and encodes one instruction line.
func (asm *Assembler) parseInstruction(line string) error {
	expanded, err := evalExpressions(line, asm.size, asm.num)
	if err != nil {
		return err
	}

	tokens := strings.FieldsFunc(expanded, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})
	if len(tokens) == 0 || tokens[0][0] == ';' {
		return nil
	}

	// A token beginning with ';' terminates the operand list early.
	operands := tokens[1:]
	for n, token := range operands {
		if token[0] == ';' {
			operands = operands[:n]
			break
		}
	}

	code, err := asm.encode(tokens[0], operands)
	if err != nil {
		return err
	}

	asm.emit(code, line)
	return nil
}

// encode packs a mnemonic and its operand tokens into an instruction
// word. It consults the register file for register/variable operands
// and the running counters for compile-time constants, but is otherwise
// a pure function of its inputs.
func (asm *Assembler) encode(mnemonic string, operands []string) (Code, error) {
	op, ok := LookupOp(mnemonic)
	if !ok {
		return 0, ErrUnknownInstruction(mnemonic)
	}

	code := MakeCode(op)
	arity := op.Arity()

	for ind, token := range operands {
		if ind >= arity {
			return 0, &ErrArity{Expected: arity, Many: true}
		}

		switch {
		case op == OpLdi:
			val, err := parseValue(token, asm.size, asm.num, 1<<16)
			if err != nil {
				return 0, err
			}
			code |= Code(val)

		case op.Immediate() && ind == 1:
			val, err := parseValue(token, asm.size, asm.num, 1<<6)
			if err != nil {
				return 0, err
			}
			code |= Code(val)

		default:
			reg, err := asm.regs.Resolve(token, asm.Options.Variables)
			if err != nil {
				return 0, err
			}
			code |= Code(reg) << ((1 - ind) * 5)
		}
	}

	if len(operands) < arity {
		return 0, &ErrArity{Expected: arity, Many: false}
	}

	return code, nil
}

// emit appends one encoded word, capturing and replaying through an
// open #repeat window. Replayed words reuse the already-encoded bits:
// constants are not re-resolved against the new index.
func (asm *Assembler) emit(code Code, source string) {
	entry := Entry{Code: code, Source: source}
	asm.prog.Entries = append(asm.prog.Entries, entry)
	asm.num++

	if asm.repeat.pending == 0 {
		return
	}

	asm.repeat.buf = append(asm.repeat.buf, entry)
	asm.repeat.pending--
	if asm.repeat.pending > 0 {
		return
	}

	for t := 1; t < asm.repeat.times; t++ {
		for _, e := range asm.repeat.buf {
			asm.prog.Entries = append(asm.prog.Entries, e)
			asm.num++
		}
	}
}

// pad emits one filler word for a skipped instruction slot. Padding
// never meets an open #repeat window: #starts is rejected inside one.
func (asm *Assembler) pad() {
	asm.prog.Entries = append(asm.prog.Entries, Entry{Code: CodeFlag})
	asm.num++
}
