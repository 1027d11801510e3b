// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

// ELF64Symbol is one entry of a SHT_SYMTAB or SHT_DYNSYM section. Name is
// an offset into the string table named by the symbol section's sh_link.
type ELF64Symbol struct {
	Name  Word
	Info  uint8
	Other uint8
	Shndx SectionIndex
	Value Addr
	Size  Xword
}

// Binding returns the high nibble of st_info.
func (s ELF64Symbol) Binding() SymBind {
	return SymBind(s.Info >> 4)
}

// Type returns the low nibble of st_info.
func (s ELF64Symbol) Type() SymType {
	return SymType(s.Info & 0xf)
}

// Visibility returns the low two bits of st_other.
func (s ELF64Symbol) Visibility() SymVis {
	return SymVis(s.Other & 0x3)
}

// SymbolInfo packs a binding and a type into an st_info byte.
func SymbolInfo(bind SymBind, typ SymType) uint8 {
	return uint8(bind)<<4 | uint8(typ)&0xf
}
