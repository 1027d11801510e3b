// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

// ELF64ProgramHeader is the on-disk program (segment) header. Loaders
// expect MemorySize >= FileSize; this is not checked here.
type ELF64ProgramHeader struct {
	Type            ProgType
	Flags           ProgFlag
	FileOffset      Off
	VirtualAddress  Addr
	PhysicalAddress Addr
	FileSize        Xword
	MemorySize      Xword
	Align           Xword
}

// IsLoad reports whether p is a PT_LOAD segment.
func (p ELF64ProgramHeader) IsLoad() bool { return p.Type == PT_LOAD }

func (p ELF64ProgramHeader) Readable() bool   { return p.Flags&PF_R != 0 }
func (p ELF64ProgramHeader) Writable() bool   { return p.Flags&PF_W != 0 }
func (p ELF64ProgramHeader) Executable() bool { return p.Flags&PF_X != 0 }

// ContainsSection reports whether the file bytes of s lie inside the file
// bytes of p.
func (p ELF64ProgramHeader) ContainsSection(s ELF64SectionHeader) bool {
	if s.Type == SHT_NOBITS {
		return p.MemorySize > 0 && s.VirtualAddress >= p.VirtualAddress &&
			s.VirtualAddress+s.Size <= p.VirtualAddress+p.MemorySize
	}
	return s.FileOffset >= p.FileOffset &&
		s.FileOffset+s.Size <= p.FileOffset+p.FileSize
}
