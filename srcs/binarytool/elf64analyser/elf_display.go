// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"debug/elf"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
	u "github.com/MiaoHao-oops/relf/srcs/common"
)

const separator = "-----------------------------------------------------------------------"

func newTabWriter(out io.Writer) *tabwriter.Writer {
	w := new(tabwriter.Writer)
	w.Init(out, 0, 8, 1, '\t', 0)
	return w
}

func (analyser *ElfAnalyser) DisplayHeader(out io.Writer) {
	h := analyser.File.Header
	data := "little endian"
	if h.Ident[elf64core.EI_DATA] == elf64core.ELFDATA2MSB {
		data = "big endian"
	}

	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	_, _ = fmt.Fprintf(w, "Class:\tELF64\n")
	_, _ = fmt.Fprintf(w, "Data:\t%s\n", data)
	_, _ = fmt.Fprintf(w, "OS/ABI:\t%s\n", elf.OSABI(h.Ident[elf64core.EI_OSABI]))
	_, _ = fmt.Fprintf(w, "Type:\t%s\n", elf.Type(h.Type))
	_, _ = fmt.Fprintf(w, "Machine:\t%s\n", elf.Machine(h.Machine))
	_, _ = fmt.Fprintf(w, "Entry point address:\t0x%x\n", h.EntryPoint)
	_, _ = fmt.Fprintf(w, "Start of program headers:\t%d\n", h.ProgramHeaderOffset)
	_, _ = fmt.Fprintf(w, "Start of section headers:\t%d\n", h.SectionHeaderOffset)
	_, _ = fmt.Fprintf(w, "Flags:\t0x%x\n", h.Flags)
	_, _ = fmt.Fprintf(w, "Size of program headers:\t%d\n", h.ProgramHeaderEntrySize)
	_, _ = fmt.Fprintf(w, "Number of program headers:\t%d\n", h.ProgramHeaderEntries)
	_, _ = fmt.Fprintf(w, "Size of section headers:\t%d\n", h.SectionHeaderEntrySize)
	_, _ = fmt.Fprintf(w, "Number of section headers:\t%d\n", h.SectionHeaderEntries)
	_, _ = fmt.Fprintf(w, "Section header string table index:\t%d\n", h.SectionNamesTable)
	_ = w.Flush()
}

func (analyser *ElfAnalyser) DisplaySections(out io.Writer) {
	if len(analyser.Sections) == 0 {
		u.PrintWarning("Section table(s) are empty")
		return
	}

	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	_, _ = fmt.Fprintln(w, "Nr\tName\tType\tAddress\tOffset\tSize\tEntSize\tFlags\tLink\tInfo\tAlign")
	for i, s := range analyser.Sections {
		_, _ = fmt.Fprintf(w, "[%d]\t%s\t%s\t%.6x\t%.6x\t%.6x\t%.2x\t%s\t%d\t%d\t%d\n", i,
			s.Name, s.Type, s.VirtualAddress, s.FileOffset, s.Size,
			s.EntrySize, s.Flags, s.LinkedIndex, s.Info, s.Align)
	}
	_ = w.Flush()
}

func (analyser *ElfAnalyser) DisplayProgramHeader(out io.Writer) {
	if len(analyser.Segments) == 0 {
		u.PrintWarning("Program header is empty")
		return
	}

	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	_, _ = fmt.Fprintln(w, "Nr\tType\tOffset\tVirtAddr\tPhysAddr\tFileSiz\tMemSiz\tFlg\tAlign")
	for i, p := range analyser.Segments {
		_, _ = fmt.Fprintf(w, "[%.2d]\t%s\t%.6x\t%.6x\t%.6x\t%.6x\t%.6x\t%s\t0x%x\n", i,
			p.Type, p.FileOffset, p.VirtualAddress, p.PhysicalAddress,
			p.FileSize, p.MemorySize, p.Flags, p.Align)
	}
	_ = w.Flush()
}

func (analyser *ElfAnalyser) DisplaySegmentSectionMapping(out io.Writer) {
	if len(analyser.Segments) == 0 {
		u.PrintWarning("Mapping between segments and sections is empty")
		return
	}

	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	for i, p := range analyser.Segments {
		_, _ = fmt.Fprintf(w, "[%.2d]", i)
		for _, s := range p.Sections {
			_, _ = fmt.Fprintf(w, " %s", s.Name)
		}
		_, _ = fmt.Fprintln(w)
	}
	_ = w.Flush()
}

func (analyser *ElfAnalyser) DisplaySymbolsTables(out io.Writer) {
	if len(analyser.SymbolsTables) == 0 {
		u.PrintWarning("Symbols table(s) are empty")
		return
	}

	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	for _, table := range analyser.SymbolsTables {
		_, _ = fmt.Fprintf(w, "\nSymbol table '%s' contains %d entries:\n",
			table.Name, len(table.Symbols))
		_, _ = fmt.Fprintln(w, "Num:\tValue\tSize\tType\tBind\tVis\tNdx\tName")
		for i, s := range table.Symbols {
			_, _ = fmt.Fprintf(w, "%d:\t%.16x\t%d\t%s\t%s\t%s\t%s\t%s\n", i,
				s.Value, s.Size, s.Type(), s.Binding(), s.Visibility(),
				sectionIndexString(s.Shndx), s.Name)
		}
	}
	_ = w.Flush()
}

func sectionIndexString(ndx elf64core.SectionIndex) string {
	switch ndx {
	case elf64core.SHN_UNDEF:
		return "UND"
	case elf64core.SHN_ABS:
		return "ABS"
	case elf64core.SHN_COMMON:
		return "COM"
	}
	return fmt.Sprintf("%d", ndx)
}

func (analyser *ElfAnalyser) DisplayRelocationTables(out io.Writer) {
	if len(analyser.RelaTables) == 0 {
		u.PrintWarning("Relocation table(s) are empty")
		return
	}

	machine := analyser.File.Header.Machine
	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	for _, table := range analyser.RelaTables {
		_, _ = fmt.Fprintf(w, "\nRelocation section '%s' contains %d entries:\n",
			table.Name, len(table.Relocations))
		_, _ = fmt.Fprintln(w, "Offset\tSym\tType\tName + Addend")
		for _, r := range table.Relocations {
			_, _ = fmt.Fprintf(w, "%.12x\t%d\t%s\t%s %+d\n", r.Offset, r.SymbolIndex,
				relocationTypeName(machine, r.Type), r.SymbolName, r.Addend)
		}
	}
	_ = w.Flush()
}

func (analyser *ElfAnalyser) DisplayDynamicEntries(out io.Writer) {
	table := analyser.DynamicTable
	if table == nil || len(table.Entries) == 0 {
		u.PrintWarning("Dynamic table is empty")
		return
	}

	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	_, _ = fmt.Fprintf(w, "%s table contains %d entries:\n\n", table.Name, len(table.Entries))
	_, _ = fmt.Fprintln(w, "Nr\tTag\tType\tValue")
	for i, d := range table.Entries {
		_, _ = fmt.Fprintf(w, "%d:\t%.8x\t%s\t%x\n", i, uint64(d.Tag), d.Tag, d.Value)
	}
	for _, lib := range table.Needed {
		_, _ = fmt.Fprintf(w, "Shared library: [%s]\n", lib)
	}
	_ = w.Flush()
}

func (analyser *ElfAnalyser) DisplayNotes(out io.Writer) {
	if len(analyser.NotesTables) == 0 {
		u.PrintWarning("Notes are empty")
		return
	}

	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	for _, t := range analyser.NotesTables {
		_, _ = fmt.Fprintf(w, "\nDisplaying notes found in: %s\n", t.Name)
		_, _ = fmt.Fprintln(w, " Owner\tData size\tType\tDescription")
		for _, n := range t.Notes {
			_, _ = fmt.Fprintf(w, " %s\t0x%.6x\t%d\t%x\n", n.Name, len(n.Desc), n.Type, n.Desc)
		}
	}
	_ = w.Flush()
}

func (analyser *ElfAnalyser) DisplayFunctionsTables(out io.Writer) {
	if len(analyser.FunctionsTables) == 0 {
		u.PrintWarning("Functions table(s) is/are empty")
		return
	}

	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, separator)
	for _, table := range analyser.FunctionsTables {
		_, _ = fmt.Fprintf(w, "\nTable section '%s' contains %d entries:\n",
			table.Name, len(table.Functions))
		_, _ = fmt.Fprintln(w, "Name:\tAddr:\tSize:")
		for _, f := range table.Functions {
			_, _ = fmt.Fprintf(w, "%s\t%6.x\t%6.x\n", f.Name, f.Addr, f.Size)
		}
	}
	_ = w.Flush()
}

// DisplaySectionInfo prints address, offset and size of the named sections.
func (analyser *ElfAnalyser) DisplaySectionInfo(out io.Writer, names []string) {
	w := newTabWriter(out)
	_, _ = fmt.Fprintln(w, "Name\tAddress\tOffset\tSize")
	for _, name := range names {
		s, ok := analyser.Section(name)
		if !ok {
			u.PrintWarning("Wrong section name " + name)
			continue
		}
		_, _ = fmt.Fprintf(w, "- %s\t0x%.6x\t0x%.6x\t%d\n",
			name, s.VirtualAddress, s.FileOffset, s.Size)
	}
	_ = w.Flush()
}

// DisplayAll writes every report, in the order readelf -a uses.
func (analyser *ElfAnalyser) DisplayAll(out io.Writer) {
	analyser.DisplayHeader(out)
	analyser.DisplaySections(out)
	analyser.DisplayProgramHeader(out)
	analyser.DisplaySegmentSectionMapping(out)
	analyser.DisplayDynamicEntries(out)
	analyser.DisplayRelocationTables(out)
	analyser.DisplaySymbolsTables(out)
	analyser.DisplayNotes(out)
}
