package asm

import (
	"bufio"
	"fmt"
	"io"
	"iter"
)

// Entry is one emitted word with the source line it came from. Padding
// words carry no source; replayed words carry the source of their first
// occurrence.
type Entry struct {
	Code   Code
	Source string
}

// Program is the result of assembling one source file.
type Program struct {
	Name     string
	Offset   int
	Size     int
	Entries  []Entry
	Bindings []Binding
}

// Codes iterates the emitted instruction words in order.
func (prog *Program) Codes() iter.Seq2[int, Code] {
	return func(yield func(n int, code Code) bool) {
		for n, entry := range prog.Entries {
			if !yield(n, entry.Code) {
				return
			}
		}
	}
}

// Render writes the program as C declarations: the word array, the size
// and offset scalars, and optionally the variable binding table.
func (prog *Program) Render(w io.Writer, opts Options) error {
	if err := opts.Check(); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "static uint16_t %s_mem[] = {\n", prog.Name)
	for _, entry := range prog.Entries {
		if opts.Decimal {
			fmt.Fprintf(bw, "\t%d,", uint16(entry.Code))
		} else {
			fmt.Fprintf(bw, "\t0b%016b,", uint16(entry.Code))
		}
		if opts.Comments && entry.Source != "" {
			fmt.Fprintf(bw, " // %s", entry.Source)
		}
		fmt.Fprintln(bw)
	}
	fmt.Fprintf(bw, "};\n")

	fmt.Fprintf(bw, "static uint16_t %s_size = %d;\n", prog.Name, prog.Size)
	fmt.Fprintf(bw, "static uint16_t %s_offset = %d;\n", prog.Name, prog.Offset)

	if opts.VarTable {
		fmt.Fprintln(bw)
		for _, binding := range prog.Bindings {
			fmt.Fprintf(bw, "// %s: r%d\n", binding.Name, binding.Reg)
		}
	}

	return bw.Flush()
}
