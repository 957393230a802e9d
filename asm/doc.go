// Package asm implements the assembler for the BattelASM language.
//
// BattelASM is a line-oriented assembly format for a 16-bit CPU with 32
// registers, two of which are permanently named sp and pc. The assembler
// turns a source file into an array of 16-bit instruction words, emitted
// as C declarations for inclusion in a host program.
//
// The language supports named variables (first-fit bound to register
// slots), compile-time constants derived from program size and position,
// Starlark $(...) expressions, and the placement directives #starts,
// #free and #repeat.
package asm
