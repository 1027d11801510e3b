// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser_test

import (
	"bytes"
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2b"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64analyser"
	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
	"github.com/MiaoHao-oops/relf/srcs/internal/elftest"
)

// modifiedData returns the program with a different .data content.
func modifiedData(t *testing.T) []byte {
	t.Helper()
	raw := elftest.Program().Bytes()
	f, err := elf64core.ParseELF64File(raw)
	require.NoError(t, err)
	data, err := f.FindSection(elf64core.DataSection)
	require.NoError(t, err)
	raw[data.FileOffset] ^= 0xff
	return raw
}

func TestDisplayReports(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	var out bytes.Buffer
	analyser.DisplayHeader(&out)
	assert.Contains(t, out.String(), "EM_X86_64")
	assert.Contains(t, out.String(), "ET_EXEC")
	assert.Contains(t, out.String(), "0x401000")

	out.Reset()
	analyser.DisplaySections(&out)
	assert.Contains(t, out.String(), ".rela.text")
	assert.Contains(t, out.String(), "NOBITS")
	assert.Contains(t, out.String(), "AX")

	out.Reset()
	analyser.DisplayProgramHeader(&out)
	assert.Contains(t, out.String(), "LOAD")
	assert.Contains(t, out.String(), "R E")

	out.Reset()
	analyser.DisplaySegmentSectionMapping(&out)
	assert.Contains(t, out.String(), "[01] .data .bss")

	out.Reset()
	analyser.DisplaySymbolsTables(&out)
	assert.Contains(t, out.String(), "Symbol table '.symtab' contains 5 entries")
	assert.Contains(t, out.String(), "counter")
	assert.Contains(t, out.String(), "UND")

	out.Reset()
	analyser.DisplayRelocationTables(&out)
	assert.Contains(t, out.String(), "R_X86_64_PLT32")
	assert.Contains(t, out.String(), "helper -4")

	out.Reset()
	analyser.DisplayDynamicEntries(&out)
	assert.Contains(t, out.String(), "Shared library: [libc.so.6]")

	out.Reset()
	analyser.DisplayNotes(&out)
	assert.Contains(t, out.String(), "deadbeef")

	out.Reset()
	analyser.DisplayFunctionsTables(&out)
	assert.Contains(t, out.String(), "helper")

	out.Reset()
	analyser.DisplaySectionInfo(&out, []string{".data", ".nope"})
	assert.Contains(t, out.String(), "0x402000")
	assert.NotContains(t, out.String(), ".nope")
}

func TestReportIsStable(t *testing.T) {
	a := analyse(t, elftest.Program().Bytes())
	b := analyse(t, elftest.Program().Bytes())
	assert.Equal(t, a.Report(), b.Report())
	assert.NotEmpty(t, a.Report())
}

func TestComputeElfPages(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	segment, err := analyser.ComputeElfPages("prog")
	require.NoError(t, err)
	assert.Equal(t, "prog", segment.Filename)
	require.Equal(t, 2, segment.NbPages)

	text := segment.Pages[0]
	sum := blake2b.Sum256(elftest.ProgramText)
	assert.Equal(t, hex.EncodeToString(sum[:]), text.Hash())
	assert.Equal(t, uint64(elftest.TextAddr), text.StartAddress())
	assert.Equal(t, ".text", text.SectionName())
	assert.Equal(t, 11, text.NonNullValues())
	assert.Equal(t, elftest.ProgramText, text.Content())

	data := segment.Pages[1]
	assert.Equal(t, 1, data.Number())
	assert.Equal(t, ".data", data.SectionName())
	assert.Len(t, data.Content(), 8)

	var out bytes.Buffer
	elf64analyser.DisplayPages(&out, segment.Pages, true)
	assert.Contains(t, out.String(), "[0] 2a")
	out.Reset()
	elf64analyser.DisplayPages(&out, segment.Pages, false)
	assert.Contains(t, out.String(), "55e80500 00005dc3")

	path := filepath.Join(t.TempDir(), "pages.txt")
	require.NoError(t, elf64analyser.SavePagesToFile(segment.Pages, path, false))
	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, out.String(), string(saved))
}

func pages(t *testing.T, name string, raw []byte) *elf64analyser.ElfFileSegment {
	t.Helper()
	segment, err := analyse(t, raw).ComputeElfPages(name)
	require.NoError(t, err)
	return segment
}

func TestComparePageTables(t *testing.T) {
	same := &elf64analyser.ComparisonElf{GroupFileSegment: []*elf64analyser.ElfFileSegment{
		pages(t, "a", elftest.Program().Bytes()),
		pages(t, "b", elftest.Program().Bytes()),
	}}
	same.ComparePageTables()
	assert.Equal(t, elf64analyser.PageStats{TotalPages: 4, SharingPages: 4, Ratio: 100}, same.Stats())

	diff := &elf64analyser.ComparisonElf{GroupFileSegment: []*elf64analyser.ElfFileSegment{
		pages(t, "a", elftest.Program().Bytes()),
		pages(t, "b", modifiedData(t)),
	}}
	diff.ComparePageTables()
	assert.Equal(t, elf64analyser.PageStats{TotalPages: 4, SharingPages: 2, SinglePages: 2, Ratio: 50}, diff.Stats())

	var out bytes.Buffer
	diff.DisplayComparison(&out)
	assert.Contains(t, out.String(), "- Ratio: 50.000000")

	dir := t.TempDir()
	written, err := diff.DiffComparison(dir)
	require.NoError(t, err)
	assert.Equal(t, 1, written)
	html, err := os.ReadFile(filepath.Join(dir, "page_1_diff.html"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(html), "<!doctype html>"))

	_, err = same.DiffComparison(dir)
	require.NoError(t, err)
	single := &elf64analyser.ComparisonElf{GroupFileSegment: same.GroupFileSegment[:1]}
	_, err = single.DiffComparison(dir)
	assert.Error(t, err)
}

func TestDisplayStatSize(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	var out bytes.Buffer
	analyser.DisplayStatSize(&out)
	// .text runs up to .data, .data up to .bss, and .bss ends the image.
	assert.Contains(t, out.String(), "4096 (0x1000)")
	assert.Contains(t, out.String(), "4120 (0x1018)")
	assert.Contains(t, out.String(), "(.data)-> (.bss)")
}

func TestBuildGraph(t *testing.T) {
	analyser := analyse(t, elftest.Program().Bytes())

	graph, err := analyser.BuildGraph("prog")
	require.NoError(t, err)
	assert.True(t, graph.Directed)

	edges := graph.Edges.SrcToDsts
	assert.Contains(t, edges["sec4"], "sec5")
	assert.Contains(t, edges["sec6"], "sec4")
	assert.Contains(t, edges["sec6"], "sec1")
	assert.Contains(t, edges["sec9"], "sec8")
	assert.Contains(t, edges["seg1"], "sec2")
	assert.Contains(t, edges["seg1"], "sec3")
	assert.Contains(t, edges["seg2"], "sec7")
	assert.NotContains(t, graph.Nodes.Lookup, "sec0")

	path := filepath.Join(t.TempDir(), "prog.dot")
	require.NoError(t, analyser.SaveGraph("prog", path))
	dot, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph")
}

func TestDiffReports(t *testing.T) {
	a := analyse(t, elftest.Program().Bytes())

	_, changed := elf64analyser.DiffReports(a, analyse(t, elftest.Program().Bytes()))
	assert.False(t, changed)

	b := elftest.Program()
	b.Entry = elftest.HelperAddr
	diff, changed := elf64analyser.DiffReports(a, analyse(t, b.Bytes()))
	assert.True(t, changed)
	assert.Contains(t, diff, "0x40100b")
}
