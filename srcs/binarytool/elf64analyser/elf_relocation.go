// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"debug/elf"
	"fmt"
	"strconv"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

// RelocationsTable is a SHT_RELA or SHT_REL section. Target is the section
// the relocations patch, or nil when they apply to the loaded image.
type RelocationsTable struct {
	Name        string
	Target      *DataSection
	Relocations []*DataRelocation
}

// DataRelocation is a relocation with the name of its symbol. REL entries
// have a zero Addend.
type DataRelocation struct {
	Offset      uint64
	Type        uint32
	SymbolIndex uint32
	Addend      int64
	SymbolName  string
}

func (analyser *ElfAnalyser) parseRelocations(s *DataSection) error {
	var relocations []*DataRelocation
	if s.Type == elf64core.SHT_RELA {
		table, err := elf64core.EntryTable[elf64core.ELF64Rela](s.Section)
		if err != nil {
			return fmt.Errorf("failed reading relocation table %s: %w", s.Name, err)
		}
		for _, r := range table.All() {
			relocations = append(relocations, &DataRelocation{Offset: r.Offset,
				Type: r.Type(), SymbolIndex: r.SymbolIndex(), Addend: r.Addend})
		}
	} else {
		table, err := elf64core.EntryTable[elf64core.ELF64Rel](s.Section)
		if err != nil {
			return fmt.Errorf("failed reading relocation table %s: %w", s.Name, err)
		}
		for _, r := range table.All() {
			relocations = append(relocations, &DataRelocation{Offset: r.Offset,
				Type: r.Type(), SymbolIndex: r.SymbolIndex()})
		}
	}

	// sh_link names the symbol table; zero means no relocation references
	// a symbol.
	if s.LinkedIndex != 0 {
		symbols, ok := analyser.symbolsByIndex[int(s.LinkedIndex)]
		if !ok {
			return fmt.Errorf("relocation section %s references non-symbol section %d", s.Name, s.LinkedIndex)
		}
		for _, r := range relocations {
			sym, err := symbols.Symbol(r.SymbolIndex)
			if err != nil {
				return fmt.Errorf("relocation section %s: %w", s.Name, err)
			}
			r.SymbolName = sym.Name
		}
	}

	table := &RelocationsTable{Name: s.Name, Relocations: relocations}
	if s.Info != 0 && int(s.Info) < len(analyser.Sections) {
		table.Target = analyser.Sections[s.Info]
	}
	analyser.RelaTables = append(analyser.RelaTables, table)
	return nil
}

// relocationTypeName names t for the machine of the file.
func relocationTypeName(machine uint16, t uint32) string {
	switch elf.Machine(machine) {
	case elf.EM_X86_64:
		return elf.R_X86_64(t).String()
	case elf.EM_AARCH64:
		return elf.R_AARCH64(t).String()
	case elf.EM_RISCV:
		return elf.R_RISCV(t).String()
	case elf.EM_PPC64:
		return elf.R_PPC64(t).String()
	}
	return strconv.FormatUint(uint64(t), 10)
}
