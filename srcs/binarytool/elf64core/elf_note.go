// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

import (
	"bytes"
	"fmt"
)

const noteHeaderSize = 12

// ELF64Note is one decoded note: the owner name, its type and descriptor.
// Desc aliases the file buffer.
type ELF64Note struct {
	Name string
	Type Word
	Desc []byte
}

func align4(n uint64) uint64 {
	return (n + 3) &^ 3
}

// Notes decodes every note of a SHT_NOTE section.
func Notes(s *Section) ([]ELF64Note, error) {
	if s.Type != SHT_NOTE {
		return nil, fmt.Errorf("section %d is %s, not NOTE: %w", s.Index, s.Type, ErrSectionType)
	}
	content, err := s.Data()
	if err != nil {
		return nil, err
	}

	order := s.file.Endianness
	var notes []ELF64Note
	for pos := uint64(0); pos < uint64(len(content)); {
		if err := checkRange(pos, noteHeaderSize, len(content)); err != nil {
			return nil, fmt.Errorf("note header at 0x%x: %w", pos, err)
		}
		namesz := uint64(order.Uint32(content[pos:]))
		descsz := uint64(order.Uint32(content[pos+4:]))
		typ := order.Uint32(content[pos+8:])
		pos += noteHeaderSize

		if err := checkRange(pos, align4(namesz), len(content)); err != nil {
			return nil, fmt.Errorf("note name at 0x%x: %w", pos, err)
		}
		name := content[pos : pos+namesz]
		pos += align4(namesz)

		if err := checkRange(pos, descsz, len(content)); err != nil {
			return nil, fmt.Errorf("note descriptor at 0x%x: %w", pos, err)
		}
		desc := content[pos : pos+descsz : pos+descsz]
		pos += descsz
		if pos = align4(pos); pos > uint64(len(content)) {
			pos = uint64(len(content))
		}

		notes = append(notes, ELF64Note{
			Name: string(bytes.TrimRight(name, "\x00")),
			Type: typ,
			Desc: desc,
		})
	}
	return notes, nil
}
