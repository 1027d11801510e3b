// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"fmt"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

// DynamicTable is the SHT_DYNAMIC section. Needed holds the DT_NEEDED
// library names resolved through the linked string table.
type DynamicTable struct {
	Name    string
	Entries []elf64core.ELF64Dyn
	Needed  []string
}

func (analyser *ElfAnalyser) parseDynamic(s *DataSection) error {
	entries, err := elf64core.DynamicEntries(s.Section)
	if err != nil {
		return fmt.Errorf("failed reading dynamic table: %w", err)
	}

	table := &DynamicTable{Name: s.Name, Entries: entries}
	strtab, err := analyser.linkedSection(s)
	if err != nil {
		return err
	}
	for _, d := range entries {
		if d.Tag != elf64core.DT_NEEDED {
			continue
		}
		if d.Value > uint64(^uint32(0)) {
			return fmt.Errorf("DT_NEEDED offset 0x%x out of range", d.Value)
		}
		name, err := strtab.ResolveName(uint32(d.Value))
		if err != nil {
			return fmt.Errorf("DT_NEEDED: %w", err)
		}
		table.Needed = append(table.Needed, name)
	}

	analyser.DynamicTable = table
	return nil
}
