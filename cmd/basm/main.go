package main

import (
	"flag"
	"log"
	"os"

	"github.com/battelasm/basm/asm"
)

func main() {
	var nocomments bool
	var vartable bool
	var decimal bool
	var obfuscate bool
	var novars bool
	var output string

	flag.BoolVar(&nocomments, "nocomments", false, "Do not echo source lines as comments")
	flag.BoolVar(&vartable, "vartable", false, "Append the variable binding table")
	flag.BoolVar(&decimal, "decimal", false, "Render words as decimal instead of binary")
	flag.BoolVar(&obfuscate, "obfuscate", false, "Shorthand for -nocomments -decimal")
	flag.BoolVar(&novars, "novars", false, "Disallow named variables")
	flag.StringVar(&output, "o", "-", "Output file")

	flag.Parse()

	if flag.NArg() != 1 {
		log.Fatalf("%v: expected exactly one input file", os.Args[0])
	}
	input := flag.Arg(0)

	if obfuscate {
		nocomments = true
		decimal = true
	}

	opts := asm.Options{
		Comments:  !nocomments,
		VarTable:  vartable,
		Decimal:   decimal,
		Variables: !novars,
	}
	if err := opts.Check(); err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	inf, err := os.Open(input)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}
	defer inf.Close()

	assembler := &asm.Assembler{Options: opts}
	prog, err := assembler.Parse(inf)
	if err != nil {
		log.Fatalf("%v: %v", input, err)
	}

	ouf := os.Stdout
	if output != "-" {
		ouf, err = os.Create(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
		defer ouf.Close()
	}

	if err := prog.Render(ouf, opts); err != nil {
		log.Fatalf("%v: %v", output, err)
	}
}
