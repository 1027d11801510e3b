// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"fmt"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

// SymbolsTable is a SHT_SYMTAB or SHT_DYNSYM section with named symbols.
type SymbolsTable struct {
	Name    string
	Index   int
	Symbols []*DataSymbol
}

// DataSymbol is a symbol with its resolved name.
type DataSymbol struct {
	Name string
	elf64core.ELF64Symbol
}

func (analyser *ElfAnalyser) parseSymbolsTable(s *DataSection) error {
	table, err := elf64core.EntryTable[elf64core.ELF64Symbol](s.Section)
	if err != nil {
		return fmt.Errorf("failed reading symbol table %s: %w", s.Name, err)
	}
	strtab, err := analyser.linkedSection(s)
	if err != nil {
		return err
	}

	symbolsTable := &SymbolsTable{
		Name:    s.Name,
		Index:   s.Index,
		Symbols: make([]*DataSymbol, table.Len()),
	}
	for i := 0; i < table.Len(); i++ {
		sym := table.At(i)
		name, err := analyser.symbolName(sym, strtab)
		if err != nil {
			return fmt.Errorf("symbol %d of %s: %w", i, s.Name, err)
		}
		symbolsTable.Symbols[i] = &DataSymbol{Name: name, ELF64Symbol: sym}
	}

	analyser.SymbolsTables = append(analyser.SymbolsTables, symbolsTable)
	analyser.symbolsByIndex[s.Index] = symbolsTable
	return nil
}

// symbolName names section symbols after their section and every other
// symbol through the linked string table.
func (analyser *ElfAnalyser) symbolName(sym elf64core.ELF64Symbol, strtab *DataSection) (string, error) {
	if sym.Type() == elf64core.STT_SECTION && sym.Name == 0 {
		if int(sym.Shndx) < len(analyser.Sections) {
			return analyser.Sections[sym.Shndx].Name, nil
		}
		return "", nil
	}
	return strtab.ResolveName(sym.Name)
}

// Symbol returns symbol index of the table, or an error if it is absent.
func (table *SymbolsTable) Symbol(index uint32) (*DataSymbol, error) {
	if len(table.Symbols) == 0 {
		return nil, fmt.Errorf("symbol table is empty")
	}
	if uint32(len(table.Symbols)) <= index {
		return nil, fmt.Errorf("invalid index %d", index)
	}
	return table.Symbols[index], nil
}

// Lookup returns the first symbol named name across all symbol tables.
func (analyser *ElfAnalyser) Lookup(name string) (*DataSymbol, bool) {
	for _, table := range analyser.SymbolsTables {
		for _, s := range table.Symbols {
			if s.Name == name && s.Type() != elf64core.STT_SECTION {
				return s, true
			}
		}
	}
	return nil, false
}
