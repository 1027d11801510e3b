// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"sort"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

// FunctionsTable lists the functions defined in one executable section,
// sorted by address.
type FunctionsTable struct {
	Name      string
	Section   *DataSection
	Functions []ELF64Function
}

type ELF64Function struct {
	Name string
	Addr uint64
	Size uint64
}

func (analyser *ElfAnalyser) parseFunctions() {
	bySection := make(map[int]*FunctionsTable)
	for _, s := range analyser.Sections {
		if s.Flags&elf64core.SHF_EXECINSTR != 0 {
			table := &FunctionsTable{Name: s.Name, Section: s}
			bySection[s.Index] = table
			analyser.FunctionsTables = append(analyser.FunctionsTables, table)
		}
	}

	seen := make(map[uint64]bool)
	for _, symbols := range analyser.SymbolsTables {
		for _, s := range symbols.Symbols {
			if s.Type() != elf64core.STT_FUNC {
				continue
			}
			table, ok := bySection[int(s.Shndx)]
			if !ok {
				continue
			}
			// .symtab and .dynsym usually both list exported functions.
			if seen[s.Value] {
				continue
			}
			seen[s.Value] = true
			table.Functions = append(table.Functions, ELF64Function{Name: s.Name, Addr: s.Value, Size: s.Size})
			analyser.MapFctAddrName[s.Value] = s.Name
		}
	}

	for _, table := range analyser.FunctionsTables {
		sort.SliceStable(table.Functions, func(i, j int) bool {
			if table.Functions[i].Addr == table.Functions[j].Addr {
				return table.Functions[i].Name < table.Functions[j].Name
			}
			return table.Functions[i].Addr < table.Functions[j].Addr
		})
		for i := range table.Functions {
			if table.Functions[i].Size == 0 {
				table.Functions[i].Size = table.detectSizeSymbol(i)
			}
		}
	}
}

// detectSizeSymbol infers the size of a function without st_size from the
// next function, or from the end of the section for the last one.
func (table *FunctionsTable) detectSizeSymbol(index int) uint64 {
	addr := table.Functions[index].Addr
	if index+1 < len(table.Functions) {
		return table.Functions[index+1].Addr - addr
	}
	end := table.Section.VirtualAddress + table.Section.Size
	if end < addr {
		return 0
	}
	return end - addr
}
