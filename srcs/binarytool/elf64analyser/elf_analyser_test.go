// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser_test

import (
	"debug/elf"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64analyser"
	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
	"github.com/MiaoHao-oops/relf/srcs/internal/elftest"
)

func analyse(t *testing.T, raw []byte) *elf64analyser.ElfAnalyser {
	t.Helper()
	f, err := elf64core.ParseELF64File(raw)
	require.NoError(t, err)
	analyser, err := elf64analyser.NewElfAnalyser(f)
	require.NoError(t, err)
	return analyser
}

func sectionNames(sections []*elf64analyser.DataSection) []string {
	var names []string
	for _, s := range sections {
		names = append(names, s.Name)
	}
	return names
}

func TestAnalyserSections(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	require.Len(t, analyser.Sections, elftest.ShstrtabIndex+1)
	assert.Equal(t, "", analyser.Sections[0].Name)
	assert.Equal(t, elf64core.ShstrtabSection, analyser.Sections[elftest.ShstrtabIndex].Name)

	text, ok := analyser.Section(elf64core.TextSection)
	require.True(t, ok)
	assert.Equal(t, elftest.TextIndex, text.Index)
	assert.Equal(t, uint64(elftest.TextAddr), text.VirtualAddress)

	_, ok = analyser.Section(".missing")
	assert.False(t, ok)

	assert.Equal(t, []string{".text", ".data", ".bss"}, sectionNames(analyser.SectionsByAddress()))
}

func TestAnalyserSegments(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	require.Len(t, analyser.Segments, 3)
	assert.Equal(t, []string{".text"}, sectionNames(analyser.Segments[0].Sections))
	assert.True(t, analyser.Segments[0].Executable())
	assert.Equal(t, []string{".data", ".bss"}, sectionNames(analyser.Segments[1].Sections))
	assert.Equal(t, uint64(8), analyser.Segments[1].FileSize)
	assert.Equal(t, uint64(8+elftest.BssSize), analyser.Segments[1].MemorySize)
	assert.Equal(t, elf64core.PT_NOTE, analyser.Segments[2].Type)
	assert.Equal(t, []string{".note.gnu.build-id"}, sectionNames(analyser.Segments[2].Sections))
}

func TestFindSectionByAddress(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	assert.Equal(t, []string{".text"}, sectionNames(analyser.FindSectionByAddress(elftest.HelperAddr)))
	assert.Equal(t, []string{".bss"}, sectionNames(analyser.FindSectionByAddress(elftest.BssAddr+1)))
	assert.Empty(t, analyser.FindSectionByAddress(elftest.BssAddr+elftest.BssSize))
	assert.Empty(t, analyser.FindSectionByAddress(0))
}

func TestAnalyserSymbols(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	require.Len(t, analyser.SymbolsTables, 1)
	table := analyser.SymbolsTables[0]
	assert.Equal(t, elf64core.SymtabSection, table.Name)
	assert.Equal(t, elftest.SymtabIndex, table.Index)
	require.Len(t, table.Symbols, 5)

	// Section symbols carry the name of their section.
	assert.Equal(t, ".text", table.Symbols[1].Name)
	assert.Equal(t, elf64core.STT_SECTION, table.Symbols[1].Type())

	main, ok := analyser.Lookup("main")
	require.True(t, ok)
	assert.Equal(t, uint64(elftest.MainAddr), main.Value)
	assert.Equal(t, elf64core.STB_GLOBAL, main.Binding())
	assert.Equal(t, elf64core.STT_FUNC, main.Type())

	_, ok = analyser.Lookup(".text")
	assert.False(t, ok)

	_, err := table.Symbol(5)
	assert.Error(t, err)
	sym, err := table.Symbol(4)
	require.NoError(t, err)
	assert.Equal(t, "counter", sym.Name)
}

func TestAnalyserRelocations(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	require.Len(t, analyser.RelaTables, 1)
	table := analyser.RelaTables[0]
	assert.Equal(t, ".rela.text", table.Name)
	require.NotNil(t, table.Target)
	assert.Equal(t, ".text", table.Target.Name)

	require.Len(t, table.Relocations, 1)
	r := table.Relocations[0]
	assert.Equal(t, uint64(elftest.MainAddr+2), r.Offset)
	assert.Equal(t, uint32(2), r.SymbolIndex)
	assert.Equal(t, uint32(elf.R_X86_64_PLT32), r.Type)
	assert.Equal(t, int64(-4), r.Addend)
	assert.Equal(t, "helper", r.SymbolName)
}

func TestAnalyserRelocationsBadSymbol(t *testing.T) {
	b := elftest.New()
	strtab, names := elftest.StringTable("f")
	symtab := elftest.Encode(binary.LittleEndian,
		elf64core.ELF64Symbol{},
		elf64core.ELF64Symbol{Name: names["f"]},
	)
	rel := elftest.Encode(binary.LittleEndian, elf64core.ELF64Rel{Info: elf64core.RelocationInfo(9, 1)})
	b.AddSection(elftest.Section{Name: ".symtab", Type: elf64core.SHT_SYMTAB, Link: 2,
		EntSize: elf64core.SymbolSize, Data: symtab})
	b.AddSection(elftest.Section{Name: ".strtab", Type: elf64core.SHT_STRTAB, Data: strtab})
	b.AddSection(elftest.Section{Name: ".rel.dyn", Type: elf64core.SHT_REL, Link: 1,
		EntSize: elf64core.RelSize, Data: rel})

	f, err := elf64core.ParseELF64File(b.Bytes())
	require.NoError(t, err)
	_, err = elf64analyser.NewElfAnalyser(f)
	assert.ErrorContains(t, err, "invalid index 9")
}

func TestAnalyserBadEntrySize(t *testing.T) {
	b := elftest.New()
	b.AddSection(elftest.Section{Name: ".symtab", Type: elf64core.SHT_SYMTAB, EntSize: 16,
		Data: make([]byte, 48)})

	f, err := elf64core.ParseELF64File(b.Bytes())
	require.NoError(t, err)
	_, err = elf64analyser.NewElfAnalyser(f)
	assert.ErrorIs(t, err, elf64core.ErrEntrySize)
}

func TestAnalyserDynamicAndNotes(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	require.NotNil(t, analyser.DynamicTable)
	assert.Equal(t, []string{"libc.so.6"}, analyser.DynamicTable.Needed)
	require.Len(t, analyser.DynamicTable.Entries, 2)
	assert.Equal(t, elf64core.DT_NULL, analyser.DynamicTable.Entries[1].Tag)

	require.Len(t, analyser.NotesTables, 1)
	require.Len(t, analyser.NotesTables[0].Notes, 1)
	note := analyser.NotesTables[0].Notes[0]
	assert.Equal(t, "GNU", note.Name)
	assert.Equal(t, uint32(3), note.Type)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, note.Desc)
}

func TestAnalyserFunctions(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	require.Len(t, analyser.FunctionsTables, 1)
	table := analyser.FunctionsTables[0]
	assert.Equal(t, ".text", table.Name)
	assert.Equal(t, []elf64analyser.ELF64Function{
		{Name: "main", Addr: elftest.MainAddr, Size: elftest.MainSize},
		// helper has no st_size and runs to the end of .text.
		{Name: "helper", Addr: elftest.HelperAddr, Size: uint64(len(elftest.ProgramText)) - 0xb},
	}, table.Functions)

	assert.Equal(t, map[uint64]string{
		elftest.MainAddr:   "main",
		elftest.HelperAddr: "helper",
	}, analyser.MapFctAddrName)
}

func TestAnalyserNoSectionNames(t *testing.T) {
	raw := elftest.Program().Bytes()
	binary.LittleEndian.PutUint16(raw[elftest.OffShstrndx:], 0)

	analyser := analyse(t, raw)
	require.Len(t, analyser.Sections, elftest.ShstrtabIndex+1)
	for _, s := range analyser.Sections {
		assert.Equal(t, "", s.Name)
	}
	assert.Equal(t, elf64core.SHT_PROGBITS, analyser.Sections[elftest.TextIndex].Type)
	_, ok := analyser.Section(elf64core.TextSection)
	assert.False(t, ok)

	require.Len(t, analyser.Segments, 3)
	assert.Len(t, analyser.Segments[0].Sections, 1)
	assert.Equal(t, elftest.TextIndex, analyser.Segments[0].Sections[0].Index)
	assert.NotEmpty(t, analyser.SymbolsTables)

	_, err := analyser.File.FindSection(elf64core.TextSection)
	assert.ErrorIs(t, err, elf64core.ErrNoSectionNames)
}

func TestAnalyserNoSections(t *testing.T) {
	raw := elftest.New().Bytes()
	raw[elftest.OffShnum] = 0
	raw[elftest.OffShnum+1] = 0
	binary.LittleEndian.PutUint64(raw[elftest.OffShoff:], 0)

	analyser := analyse(t, raw)
	assert.Empty(t, analyser.Sections)
	assert.Empty(t, analyser.SymbolsTables)
	assert.Empty(t, analyser.FunctionsTables)
	assert.Nil(t, analyser.DynamicTable)
}
