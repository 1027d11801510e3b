// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

import "fmt"

// ELF64Dyn is one entry of the SHT_DYNAMIC section.
type ELF64Dyn struct {
	Tag   DynTag
	Value Xword
}

// DynamicEntries returns the entries of s up to and including the first
// DT_NULL. Padding after DT_NULL is dropped.
func DynamicEntries(s *Section) ([]ELF64Dyn, error) {
	if s.Type != SHT_DYNAMIC {
		return nil, fmt.Errorf("section %d is %s, not DYNAMIC: %w", s.Index, s.Type, ErrSectionType)
	}
	table, err := EntryTable[ELF64Dyn](s)
	if err != nil {
		return nil, err
	}

	entries := make([]ELF64Dyn, 0, table.Len())
	for i := 0; i < table.Len(); i++ {
		d := table.At(i)
		entries = append(entries, d)
		if d.Tag == DT_NULL {
			break
		}
	}
	return entries, nil
}
