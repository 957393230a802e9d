package asm

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterFirstFit(t *testing.T) {
	assert := assert.New(t)

	rf := NewRegisterFile()

	for n, name := range []string{"alpha", "beta", "gamma"} {
		reg, err := rf.Allocate(name)
		assert.NoError(err)
		assert.Equal(uint16(n), reg)
	}

	assert.NoError(rf.Free("beta"))

	reg, err := rf.Allocate("delta")
	assert.NoError(err)
	assert.Equal(uint16(1), reg)

	// Freeing leaves the other mappings untouched.
	reg, ok := rf.Lookup("gamma")
	assert.True(ok)
	assert.Equal(uint16(2), reg)
}

func TestRegisterPermanent(t *testing.T) {
	assert := assert.New(t)

	rf := NewRegisterFile()

	for _, entry := range []struct {
		name string
		reg  uint16
	}{
		{"sp", RegSp},
		{"SP", RegSp},
		{"pc", RegPc},
		{"Pc", RegPc},
	} {
		reg, ok := rf.Lookup(entry.name)
		assert.True(ok, entry.name)
		assert.Equal(entry.reg, reg, entry.name)
	}

	var vu ErrVariableUnbound
	assert.True(errors.As(rf.Free("sp"), &vu))
	assert.True(errors.As(rf.Free("pc"), &vu))
}

func TestRegisterNumeric(t *testing.T) {
	assert := assert.New(t)

	rf := NewRegisterFile()

	for _, entry := range []struct {
		token string
		reg   uint16
	}{
		{"r0", 0},
		{"R0", 0},
		{"r9", 9},
		{"r10", 10},
		{"r29", 29},
		{"R31", 31},
	} {
		reg, err := rf.Resolve(entry.token, true)
		assert.NoError(err, entry.token)
		assert.Equal(entry.reg, reg, entry.token)
	}

	// Numeric syntax out of range is an error, not a variable name.
	_, err := rf.Resolve("r32", true)
	var ru ErrRegisterUnknown
	assert.True(errors.As(err, &ru))

	// r followed by non-digits is an ordinary variable name.
	reg, err := rf.Resolve("r3x", true)
	assert.NoError(err)
	assert.Equal(uint16(0), reg)

	reg, ok := rf.Lookup("r3x")
	assert.True(ok)
	assert.Equal(uint16(0), reg)
}

func TestRegisterAliasing(t *testing.T) {
	assert := assert.New(t)

	rf := NewRegisterFile()

	// Numeric references never consult the table, so r0 reaches the
	// slot a variable is bound to.
	named, err := rf.Resolve("counter", true)
	assert.NoError(err)

	numeric, err := rf.Resolve("r0", true)
	assert.NoError(err)
	assert.Equal(named, numeric)
}

func TestRegisterResolveErrors(t *testing.T) {
	assert := assert.New(t)

	rf := NewRegisterFile()

	var vn ErrVariableName
	_, err := rf.Resolve("#size", true)
	assert.True(errors.As(err, &vn))
	_, err = rf.Resolve("9lives", true)
	assert.True(errors.As(err, &vn))

	var ru ErrRegisterUnknown
	_, err = rf.Resolve("counter", false)
	assert.True(errors.As(err, &ru))

	// Permanent names resolve with variables disabled.
	reg, err := rf.Resolve("sp", false)
	assert.NoError(err)
	assert.Equal(uint16(RegSp), reg)
}

func TestRegisterExhausted(t *testing.T) {
	assert := assert.New(t)

	rf := NewRegisterFile()

	for n := range RegSp {
		reg, err := rf.Allocate(fmt.Sprintf("var%d", n))
		assert.NoError(err)
		assert.Equal(uint16(n), reg)
	}

	_, err := rf.Allocate("overflow")
	var vl ErrVariableLimit
	assert.True(errors.As(err, &vl))
	assert.Equal("overflow", string(vl))
}

func TestRegisterBindings(t *testing.T) {
	assert := assert.New(t)

	rf := NewRegisterFile()
	_, _ = rf.Allocate("first")
	_, _ = rf.Allocate("second")
	assert.NoError(rf.Free("first"))

	// Permanent sp/pc are not reported.
	assert.Equal([]Binding{{Name: "second", Reg: 1}}, rf.Bindings())
}
