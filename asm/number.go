package asm

import (
	"strconv"
	"strings"
)

// parseNum parses an unsigned numeric literal. A leading 0b selects
// binary with '.' allowed as a visual separator, 0x selects strict
// hexadecimal, anything else is strict decimal. Negative numbers are
// not representable in any base.
func parseNum(token string) (int, error) {
	switch {
	case strings.HasPrefix(token, "0b"), strings.HasPrefix(token, "0B"):
		val := 0
		for _, c := range token[2:] {
			switch c {
			case '0', '1':
				val = val*2 + int(c-'0')
				if val > 0xffff_ffff {
					return 0, ErrNumberSyntax{Token: token, Base: "binary"}
				}
			case '.':
				// separator
			default:
				return 0, ErrNumberSyntax{Token: token, Base: "binary"}
			}
		}
		return val, nil

	case strings.HasPrefix(token, "0x"), strings.HasPrefix(token, "0X"):
		val, err := strconv.ParseUint(token[2:], 16, 32)
		if err != nil {
			return 0, ErrNumberSyntax{Token: token, Base: "hexadecimal"}
		}
		return int(val), nil

	default:
		val, err := strconv.ParseUint(token, 10, 32)
		if err != nil {
			return 0, ErrNumberSyntax{Token: token, Base: "decimal"}
		}
		return int(val), nil
	}
}

// parseConst resolves a compile-time constant of the form
// #<name>[:<delta>[:<multiplier>]] against the program size and the
// current instruction index. The leading '#' has been checked by the
// caller.
func parseConst(token string, size, index int) (int, error) {
	parts := strings.SplitN(token[1:], ":", 3)

	delta, multiplier := 0, 1
	if len(parts) >= 2 {
		v, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, ErrNumberSyntax{Token: parts[1], Base: "decimal"}
		}
		delta = v
	}
	if len(parts) == 3 {
		v, err := strconv.Atoi(parts[2])
		if err != nil {
			return 0, ErrNumberSyntax{Token: parts[2], Base: "decimal"}
		}
		multiplier = v
	}

	switch strings.ToLower(parts[0]) {
	case "size":
		return size*multiplier + delta, nil
	case "before":
		return index*multiplier + delta, nil
	case "after":
		return (size-index-1)*multiplier + delta, nil
	default:
		return 0, ErrUnknownConstant(parts[0])
	}
}

// parseValue resolves an immediate operand token: compile-time constant
// syntax first (constants start with '#'), then numeric literal. The
// value must fit [0, limit).
func parseValue(token string, size, index, limit int) (int, error) {
	var val int
	var err error
	if strings.HasPrefix(token, "#") {
		val, err = parseConst(token, size, index)
	} else {
		val, err = parseNum(token)
	}
	if err != nil {
		return 0, err
	}
	if val < 0 || val >= limit {
		return 0, ErrValueRange{Token: token, Value: val, Limit: limit}
	}
	return val, nil
}
