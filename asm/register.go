package asm

import (
	"strings"
)

const (
	RegisterCount = 32 // Number of addressable register slots.
	RegSp         = 30 // Stack pointer, permanently named "sp".
	RegPc         = 31 // Program counter, permanently named "pc".
)

// Binding is one live variable-name-to-register mapping.
type Binding struct {
	Name string
	Reg  uint16
}

// RegisterFile is the fixed table of register-name bindings. A slot is
// either free (empty name) or bound; slots RegSp and RegPc are bound at
// construction and are never reassigned or freed. Unbinding a name does
// not touch the register's runtime value, only the name mapping.
type RegisterFile struct {
	names [RegisterCount]string
}

func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	rf.names[RegSp] = "sp"
	rf.names[RegPc] = "pc"
	return rf
}

// Lookup finds a bound name, case-insensitively.
func (rf *RegisterFile) Lookup(name string) (reg uint16, ok bool) {
	for i, bound := range rf.names {
		if bound != "" && strings.EqualFold(bound, name) {
			return uint16(i), true
		}
	}
	return 0, false
}

// Allocate binds a name to the lowest free slot. The permanent sp/pc
// slots are never candidates. First-fit keeps allocation deterministic
// for a given source order.
func (rf *RegisterFile) Allocate(name string) (reg uint16, err error) {
	for i := range RegSp {
		if rf.names[i] == "" {
			rf.names[i] = name
			return uint16(i), nil
		}
	}
	return 0, ErrVariableLimit(name)
}

// Free drops a variable binding, leaving the slot eligible for reuse.
// The permanent sp/pc bindings are not freeable.
func (rf *RegisterFile) Free(name string) error {
	for i := range RegSp {
		if rf.names[i] != "" && strings.EqualFold(rf.names[i], name) {
			rf.names[i] = ""
			return nil
		}
	}
	return ErrVariableUnbound(name)
}

// Bindings returns the live variable bindings in slot order, the two
// permanent registers excluded.
func (rf *RegisterFile) Bindings() (out []Binding) {
	for i := range RegSp {
		if rf.names[i] != "" {
			out = append(out, Binding{Name: rf.names[i], Reg: uint16(i)})
		}
	}
	return
}

// Resolve maps a register or variable token to a slot index. Numeric
// register syntax (r/R followed by 1-2 digits) resolves directly and
// never consults the table, so r1 can alias a slot already bound to a
// variable name. Unknown names are first-fit allocated when variables
// are enabled.
func (rf *RegisterFile) Resolve(token string, variables bool) (reg uint16, err error) {
	reg, numeric, err := numericRegister(token)
	if numeric || err != nil {
		return reg, err
	}

	if reg, ok := rf.Lookup(token); ok {
		return reg, nil
	}

	if !variables {
		return 0, ErrRegisterUnknown(token)
	}

	if token[0] == '#' || (token[0] >= '0' && token[0] <= '9') {
		return 0, ErrVariableName(token)
	}

	return rf.Allocate(token)
}

// numericRegister recognizes the r<N> register syntax. A token that is
// r/R followed by anything other than 1-2 digits is not numeric syntax
// and falls through to name resolution; digits naming a slot beyond the
// register file are an error.
func numericRegister(token string) (reg uint16, ok bool, err error) {
	if len(token) < 2 || len(token) > 3 {
		return 0, false, nil
	}
	if token[0] != 'r' && token[0] != 'R' {
		return 0, false, nil
	}

	num := 0
	for _, c := range token[1:] {
		if c < '0' || c > '9' {
			return 0, false, nil
		}
		num = num*10 + int(c-'0')
	}

	if num >= RegisterCount {
		return 0, false, ErrRegisterUnknown(token)
	}

	return uint16(num), true, nil
}
