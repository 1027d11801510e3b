// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"errors"
	"fmt"
	"sort"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
)

// DataSection is a section with its resolved name.
type DataSection struct {
	Name string
	*elf64core.Section
}

// DataSegment is a program header with the sections it covers.
type DataSegment struct {
	elf64core.ELF64ProgramHeader
	Sections []*DataSection
}

// ElfAnalyser gathers everything reachable from one ELF64 image: named
// sections, segments, symbol, relocation, dynamic and note tables, and
// functions.
type ElfAnalyser struct {
	File *elf64core.ELF64File

	Sections        []*DataSection
	Segments        []*DataSegment
	SymbolsTables   []*SymbolsTable
	RelaTables      []*RelocationsTable
	DynamicTable    *DynamicTable
	NotesTables     []*NotesTable
	FunctionsTables []*FunctionsTable

	IndexSections  map[string]int
	MapFctAddrName map[uint64]string

	// symbolsByIndex maps a symbol section index to its parsed table.
	symbolsByIndex map[int]*SymbolsTable
}

// NewElfAnalyser walks every table of elfFile.
func NewElfAnalyser(elfFile *elf64core.ELF64File) (*ElfAnalyser, error) {
	analyser := &ElfAnalyser{
		File:           elfFile,
		IndexSections:  make(map[string]int),
		MapFctAddrName: make(map[uint64]string),
		symbolsByIndex: make(map[int]*SymbolsTable),
	}

	if err := analyser.parseSections(); err != nil {
		return nil, err
	}
	if err := analyser.parseSegments(); err != nil {
		return nil, err
	}
	if err := analyser.parseTables(); err != nil {
		return nil, err
	}
	analyser.parseFunctions()

	return analyser, nil
}

func (analyser *ElfAnalyser) parseSections() error {
	sections, err := analyser.File.SectionsTable()
	if err != nil {
		return err
	}
	if sections.Len() == 0 {
		return nil
	}
	// Without a section name table every section is left unnamed.
	names, err := analyser.File.SectionNamesTable()
	if err != nil && !errors.Is(err, elf64core.ErrNoSectionNames) {
		return err
	}

	analyser.Sections = make([]*DataSection, sections.Len())
	for i, s := range sections.All() {
		var name string
		if names != nil {
			if name, err = names.ResolveName(s.Name); err != nil {
				return fmt.Errorf("failed resolving name of section %d: %w", i, err)
			}
		}
		analyser.Sections[i] = &DataSection{Name: name, Section: s}
		if _, ok := analyser.IndexSections[name]; !ok {
			analyser.IndexSections[name] = i
		}
	}
	return nil
}

func (analyser *ElfAnalyser) parseSegments() error {
	segments, err := analyser.File.SegmentsTable()
	if err != nil {
		return err
	}

	analyser.Segments = make([]*DataSegment, segments.Len())
	for i, p := range segments.All() {
		segment := &DataSegment{ELF64ProgramHeader: p}
		for _, s := range analyser.Sections {
			if s.Type != elf64core.SHT_NULL && s.Size > 0 && p.ContainsSection(s.ELF64SectionHeader) {
				segment.Sections = append(segment.Sections, s)
			}
		}
		analyser.Segments[i] = segment
	}
	return nil
}

// parseTables decodes symbol tables first so that relocation tables can
// name their symbols.
func (analyser *ElfAnalyser) parseTables() error {
	for _, s := range analyser.Sections {
		switch s.Type {
		case elf64core.SHT_SYMTAB, elf64core.SHT_DYNSYM:
			if err := analyser.parseSymbolsTable(s); err != nil {
				return err
			}
		}
	}

	for _, s := range analyser.Sections {
		var err error
		switch s.Type {
		case elf64core.SHT_RELA, elf64core.SHT_REL:
			err = analyser.parseRelocations(s)
		case elf64core.SHT_DYNAMIC:
			err = analyser.parseDynamic(s)
		case elf64core.SHT_NOTE:
			err = analyser.parseNote(s)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// Section returns the section named name, if any.
func (analyser *ElfAnalyser) Section(name string) (*DataSection, bool) {
	i, ok := analyser.IndexSections[name]
	if !ok {
		return nil, false
	}
	return analyser.Sections[i], true
}

// linkedSection returns the section referenced by the sh_link of s.
func (analyser *ElfAnalyser) linkedSection(s *DataSection) (*DataSection, error) {
	if int(s.LinkedIndex) >= len(analyser.Sections) {
		return nil, fmt.Errorf("section %s links to missing section %d", s.Name, s.LinkedIndex)
	}
	return analyser.Sections[s.LinkedIndex], nil
}

// FindSectionByAddress returns the allocated sections whose address range
// holds addr.
func (analyser *ElfAnalyser) FindSectionByAddress(addr uint64) []*DataSection {
	var found []*DataSection
	for _, s := range analyser.Sections {
		if s.Flags&elf64core.SHF_ALLOC == 0 {
			continue
		}
		if s.VirtualAddress <= addr && addr < s.VirtualAddress+s.Size {
			found = append(found, s)
		}
	}
	return found
}

// SectionsByAddress returns the allocated sections sorted by address.
func (analyser *ElfAnalyser) SectionsByAddress() []*DataSection {
	var sorted []*DataSection
	for _, s := range analyser.Sections {
		if s.Flags&elf64core.SHF_ALLOC != 0 && s.VirtualAddress > 0 {
			sorted = append(sorted, s)
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].VirtualAddress < sorted[j].VirtualAddress
	})
	return sorted
}
