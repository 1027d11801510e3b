// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

// Package elf64disassembler decodes the x86-64 code of executable sections
// and names call targets after the functions of the file.
package elf64disassembler

import (
	"debug/elf"
	"errors"
	"fmt"
	"io"

	"golang.org/x/arch/x86/x86asm"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64analyser"
	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

var ErrUnsupportedMachine = errors.New("unsupported machine")

// Instruction is one decoded instruction. Text is "(bad)" when the bytes
// do not decode, in which case the instruction spans a single byte.
type Instruction struct {
	Address uint64
	Bytes   []byte
	Text    string
	Valid   bool

	// Set for direct calls.
	Call       bool
	CallTarget uint64
	CallName   string
}

// Disassemble decodes code loaded at pc. symname names addresses in the
// GNU syntax operands; it may be nil.
func Disassemble(code []byte, pc uint64, symname func(uint64) (string, uint64)) []Instruction {
	if symname == nil {
		symname = func(uint64) (string, uint64) { return "", 0 }
	}

	var insns []Instruction
	for len(code) > 0 {
		inst, err := x86asm.Decode(code, 64)
		size := inst.Len
		if err != nil || size == 0 || inst.Op == 0 {
			size = 1
			insns = append(insns, Instruction{Address: pc, Bytes: code[:1:1], Text: "(bad)"})
		} else {
			insn := Instruction{
				Address: pc,
				Bytes:   code[:size:size],
				Text:    x86asm.GNUSyntax(inst, pc, symname),
				Valid:   true,
			}
			if rel, ok := inst.Args[0].(x86asm.Rel); ok && inst.Op == x86asm.CALL {
				insn.Call = true
				insn.CallTarget = uint64(int64(pc) + int64(size) + int64(rel))
				if name, base := symname(insn.CallTarget); len(name) > 0 && base == insn.CallTarget {
					insn.CallName = name
				}
			}
			insns = append(insns, insn)
		}
		code = code[size:]
		pc += uint64(size)
	}
	return insns
}

// DisassembleSection decodes the named executable section of the file.
func DisassembleSection(analyser *elf64analyser.ElfAnalyser, name string) ([]Instruction, error) {
	if machine := elf.Machine(analyser.File.Header.Machine); machine != elf.EM_X86_64 {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMachine, machine)
	}
	s, ok := analyser.Section(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, elf64core.ErrSectionNotFound)
	}
	if s.Flags&elf64core.SHF_EXECINSTR == 0 {
		return nil, fmt.Errorf("section %s is not executable", name)
	}
	code, err := s.Data()
	if err != nil {
		return nil, err
	}

	symname := func(addr uint64) (string, uint64) {
		if name, ok := analyser.MapFctAddrName[addr]; ok {
			return name, addr
		}
		return "", 0
	}
	return Disassemble(code, s.VirtualAddress, symname), nil
}

// DisplayInstructions writes an objdump-like listing. With callsOnly set,
// only direct calls are listed.
func DisplayInstructions(out io.Writer, insns []Instruction, callsOnly bool) {
	for _, insn := range insns {
		if callsOnly && !insn.Call {
			continue
		}
		_, _ = fmt.Fprintf(out, "%8x:\t% -21x\t%s", insn.Address, insn.Bytes, insn.Text)
		if insn.Call && len(insn.CallName) > 0 {
			_, _ = fmt.Fprintf(out, "\t<%s>", insn.CallName)
		}
		_, _ = fmt.Fprintln(out)
	}
}
