// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package binarytool

import (
	"fmt"
	"io"
	"os"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64analyser"
	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64disassembler"
	u "github.com/MiaoHao-oops/relf/srcs/common"
)

const (
	headerDisplay      = "header"
	sectionsDisplay    = "sections"
	segmentsDisplay    = "segments"
	mappingDisplay     = "mapping"
	symbolsDisplay     = "symbols"
	relocationsDisplay = "relocations"
	dynamicsDisplay    = "dynamics"
	notesDisplay       = "notes"
	functionsDisplay   = "functions"
	allDisplay         = "all"
)

var displayOptions = []string{headerDisplay, sectionsDisplay, segmentsDisplay,
	mappingDisplay, symbolsDisplay, relocationsDisplay, dynamicsDisplay,
	notesDisplay, functionsDisplay}

type Binaries struct {
	Binaries []*Binary `json:"binaries"`
}

// Binary is one file to analyse with the reports requested for it.
type Binary struct {
	Path                 string   `json:"path"`
	DisplayElfFile       []string `json:"displayElfFile"`
	DisplayStatSize      bool     `json:"displayStatSize"`
	DisplaySectionInfo   []string `json:"displaySectionInfo"`
	FindSectionByAddress []string `json:"findSectionByAddress"`
	Disassemble          string   `json:"disassemble"`
	CallsOnly            bool     `json:"callsOnly"`
	Graph                string   `json:"graph"`

	ElfFile  *elf64core.ELF64File       `json:"-"`
	Analyser *elf64analyser.ElfAnalyser `json:"-"`
}

// Load reads the file into memory and analyses it.
func (b *Binary) Load() error {
	raw, err := os.ReadFile(b.Path)
	if err != nil {
		return err
	}
	b.ElfFile, err = elf64core.ParseELF64File(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", b.Path, err)
	}
	b.ElfFile.Name = b.Path
	b.Analyser, err = elf64analyser.NewElfAnalyser(b.ElfFile)
	if err != nil {
		return fmt.Errorf("%s: %w", b.Path, err)
	}
	return nil
}

func (b *Binary) displayAllElfInfo(out io.Writer) {
	b.Analyser.DisplayAll(out)
	b.Analyser.DisplayFunctionsTables(out)
}

// DisplayElfInfo writes the requested reports in the order given.
func (b *Binary) DisplayElfInfo(out io.Writer) {
	if stringInSlice(allDisplay, b.DisplayElfFile) {
		b.displayAllElfInfo(out)
		return
	}

	for _, d := range b.DisplayElfFile {
		switch d {
		case headerDisplay:
			b.Analyser.DisplayHeader(out)
		case sectionsDisplay:
			b.Analyser.DisplaySections(out)
		case segmentsDisplay:
			b.Analyser.DisplayProgramHeader(out)
		case mappingDisplay:
			b.Analyser.DisplaySegmentSectionMapping(out)
		case symbolsDisplay:
			b.Analyser.DisplaySymbolsTables(out)
		case relocationsDisplay:
			b.Analyser.DisplayRelocationTables(out)
		case dynamicsDisplay:
			b.Analyser.DisplayDynamicEntries(out)
		case notesDisplay:
			b.Analyser.DisplayNotes(out)
		case functionsDisplay:
			b.Analyser.DisplayFunctionsTables(out)
		default:
			u.PrintWarning("No display configuration found for argument: " + d)
		}
	}
}

// FindSectionsByAddress writes the section(s) holding each address.
func (b *Binary) FindSectionsByAddress(out io.Writer) {
	for _, addr := range b.FindSectionByAddress {
		intAddr, err := hex2int(addr)
		if err != nil {
			u.PrintWarning(fmt.Sprintf("Error %s: Cannot convert %s to integer. Skip.", err, addr))
			continue
		}
		sections := b.Analyser.FindSectionByAddress(intAddr)
		if len(sections) == 0 {
			u.PrintWarning(fmt.Sprintf("Cannot find a section for address: %s", addr))
			continue
		}
		for _, s := range sections {
			_, _ = fmt.Fprintf(out, "Address %s is in section %s\n", addr, s.Name)
		}
	}
}

// DisassembleSection writes the listing of the requested section.
func (b *Binary) DisassembleSection(out io.Writer) error {
	insns, err := elf64disassembler.DisassembleSection(b.Analyser, b.Disassemble)
	if err != nil {
		return err
	}
	elf64disassembler.DisplayInstructions(out, insns, b.CallsOnly)
	return nil
}
