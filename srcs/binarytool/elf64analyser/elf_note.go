// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"fmt"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

type NotesTable struct {
	Name  string
	Notes []elf64core.ELF64Note
}

func (analyser *ElfAnalyser) parseNote(s *DataSection) error {
	notes, err := elf64core.Notes(s.Section)
	if err != nil {
		return fmt.Errorf("failed reading note section %s: %w", s.Name, err)
	}
	analyser.NotesTables = append(analyser.NotesTables, &NotesTable{Name: s.Name, Notes: notes})
	return nil
}
