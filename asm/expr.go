package asm

import (
	"regexp"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"
)

var exprPattern = regexp.MustCompile(`\$\([^\$]*\)`)

// evalExpressions does compile-time $(...) evaluations, replacing each
// expression with its decimal value before the line is tokenized. The
// globals SIZE, BEFORE and AFTER carry the same values the # constants
// resolve to.
func evalExpressions(line string, size, index int) (string, error) {
	if !strings.Contains(line, "$(") {
		return line, nil
	}

	var err error
	out := exprPattern.ReplaceAllStringFunc(line, func(str string) string {
		value, everr := parenEval(str[2:len(str)-1], size, index)
		if everr != nil {
			err = everr
		}
		return strconv.Itoa(value)
	})
	if err != nil {
		return "", err
	}
	return out, nil
}

// parenEval evaluates a single Starlark expression.
func parenEval(expr string, size, index int) (value int, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	globals := starlark.StringDict{
		"SIZE":   starlark.MakeInt(size),
		"BEFORE": starlark.MakeInt(index),
		"AFTER":  starlark.MakeInt(size - index - 1),
	}

	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, globals)
	if err != nil {
		return 0, ErrParseExpression(expr)
	}

	rc, ok := dict["rc"]
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	rcInt, ok := rc.(starlark.Int)
	if !ok {
		return 0, ErrParseExpression(expr)
	}
	rc64, ok := rcInt.Int64()
	if !ok {
		return 0, ErrParseExpression(expr)
	}

	return int(rc64), nil
}
