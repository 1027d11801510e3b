// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

// ELF64Rela is one entry of a SHT_RELA section.
type ELF64Rela struct {
	Offset Addr
	Info   Xword
	Addend Sxword
}

// SymbolIndex returns the high 32 bits of r_info.
func (r ELF64Rela) SymbolIndex() uint32 {
	return uint32(r.Info >> 32)
}

// Type returns the low 32 bits of r_info.
func (r ELF64Rela) Type() uint32 {
	return uint32(r.Info)
}

// ELF64Rel is one entry of a SHT_REL section. The addend is held in the
// relocated location.
type ELF64Rel struct {
	Offset Addr
	Info   Xword
}

// SymbolIndex returns the high 32 bits of r_info.
func (r ELF64Rel) SymbolIndex() uint32 {
	return uint32(r.Info >> 32)
}

// Type returns the low 32 bits of r_info.
func (r ELF64Rel) Type() uint32 {
	return uint32(r.Info)
}

// RelocationInfo packs a symbol index and a relocation type into r_info.
func RelocationInfo(symbolIndex, typ uint32) Xword {
	return Xword(symbolIndex)<<32 | Xword(typ)
}
