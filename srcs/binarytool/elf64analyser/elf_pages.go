// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/crypto/blake2b"
)

const PageSize = 0x1000

// ElfFileSegment holds the pages of the loadable segments of one file.
type ElfFileSegment struct {
	Filename string
	NbPages  int
	Pages    []*ElfPage
}

// ElfPage is one PageSize chunk of a loadable segment, as stored in the
// file. The last page of a segment may be shorter.
type ElfPage struct {
	number           int
	startAddress     uint64
	contentByteArray []byte
	hash             string
	segment          int
	sectionName      string
	noNullValues     int
}

func (p *ElfPage) Number() int { return p.number }
func (p *ElfPage) StartAddress() uint64 { return p.startAddress }
func (p *ElfPage) Hash() string { return p.hash }
func (p *ElfPage) SectionName() string { return p.sectionName }
func (p *ElfPage) NonNullValues() int { return p.noNullValues }
func (p *ElfPage) Content() []byte { return p.contentByteArray }

// ComputeElfPages splits the file content of every PT_LOAD segment into
// pages and hashes each of them with BLAKE2b-256.
func (analyser *ElfAnalyser) ComputeElfPages(filename string) (*ElfFileSegment, error) {
	fileSegment := &ElfFileSegment{Filename: filename}

	for i, p := range analyser.Segments {
		if !p.IsLoad() || p.FileSize == 0 {
			continue
		}
		content, err := analyser.File.SegmentContent(p.ELF64ProgramHeader)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}

		for off := 0; off < len(content); off += PageSize {
			end := off + PageSize
			if end > len(content) {
				end = len(content)
			}
			page := newElfPage(content[off:end:end])
			page.number = len(fileSegment.Pages)
			page.startAddress = p.VirtualAddress + uint64(off)
			page.segment = i
			if sections := analyser.FindSectionByAddress(page.startAddress); len(sections) > 0 {
				page.sectionName = sections[0].Name
			}
			fileSegment.Pages = append(fileSegment.Pages, page)
		}
	}

	fileSegment.NbPages = len(fileSegment.Pages)
	return fileSegment, nil
}

func newElfPage(content []byte) *ElfPage {
	sum := blake2b.Sum256(content)
	page := &ElfPage{
		contentByteArray: content,
		hash:             hex.EncodeToString(sum[:]),
	}
	for _, b := range content {
		if b != 0 {
			page.noNullValues++
		}
	}
	return page
}

func (p *ElfPage) pageContentToString() string {
	var builder strings.Builder
	p.displayPageContent(&builder)
	return builder.String()
}

func (p *ElfPage) displayPageContent(mw io.Writer) {
	for i, entry := range p.contentByteArray {
		if i > 0 && i%16 == 0 {
			_, _ = fmt.Fprintf(mw, "\n")
		} else if i > 0 && i%4 == 0 {
			_, _ = fmt.Fprintf(mw, " ")
		}
		_, _ = fmt.Fprintf(mw, "%02x", entry)
	}
	_, _ = fmt.Fprintln(mw, "")
}

func (p *ElfPage) displayPageContentShort(mw io.Writer) {
	entryLine := 0
	for i, entry := range p.contentByteArray {
		if entry > 0 {
			_, _ = fmt.Fprintf(mw, "[%d] %02x ", i, entry)
			if entryLine > 0 && entryLine%16 == 0 {
				_, _ = fmt.Fprintf(mw, "\n")
			}
			entryLine++
		}
	}
	_, _ = fmt.Fprintln(mw, "")
}

// DisplayPages writes pages to mw, in full hex or listing non-null bytes only.
func DisplayPages(mw io.Writer, pages []*ElfPage, shortView bool) {
	for _, p := range pages {
		_, _ = fmt.Fprintln(mw, "----------------------------------------------------")
		_, _ = fmt.Fprintf(mw, "Page: %d\n", p.number+1)
		_, _ = fmt.Fprintf(mw, "Segment: %d\n", p.segment)
		_, _ = fmt.Fprintf(mw, "Section: %s\n", p.sectionName)
		_, _ = fmt.Fprintf(mw, "StartAddr: %x (%d)\n", p.startAddress, p.startAddress)
		_, _ = fmt.Fprintf(mw, "Non-Null value: %d\n", p.noNullValues)
		_, _ = fmt.Fprintf(mw, "Hash: %s\n", p.hash)

		if shortView {
			p.displayPageContentShort(mw)
		} else {
			p.displayPageContent(mw)
		}
		_, _ = fmt.Fprintln(mw, "----------------------------------------------------")
	}
}

// SavePagesToFile writes the pages to filename, or to stdout when filename
// is empty.
func SavePagesToFile(pages []*ElfPage, filename string, shortView bool) error {
	if len(filename) == 0 {
		DisplayPages(os.Stdout, pages, shortView)
		return nil
	}

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	DisplayPages(file, pages, shortView)
	return nil
}
