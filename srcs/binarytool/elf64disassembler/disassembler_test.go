// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64disassembler_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64analyser"
	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64disassembler"
	"github.com/MiaoHao-oops/relf/srcs/internal/elftest"
)

func analyse(t *testing.T, b *elftest.Builder) *elf64analyser.ElfAnalyser {
	t.Helper()
	f, err := elf64core.ParseELF64File(b.Bytes())
	require.NoError(t, err)
	analyser, err := elf64analyser.NewElfAnalyser(f)
	require.NoError(t, err)
	return analyser
}

func TestDisassembleSection(t *testing.T) {
	insns, err := elf64disassembler.DisassembleSection(analyse(t, elftest.Program()), elf64core.TextSection)
	require.NoError(t, err)
	require.Len(t, insns, 9)

	var size int
	for _, insn := range insns {
		assert.True(t, insn.Valid)
		size += len(insn.Bytes)
	}
	assert.Equal(t, len(elftest.ProgramText), size)

	assert.Equal(t, uint64(elftest.TextAddr), insns[0].Address)
	assert.Contains(t, insns[0].Text, "%rbp")

	call := insns[1]
	assert.Equal(t, uint64(elftest.TextAddr+1), call.Address)
	assert.True(t, call.Call)
	assert.Equal(t, uint64(elftest.HelperAddr), call.CallTarget)
	assert.Equal(t, "helper", call.CallName)

	assert.Equal(t, uint64(elftest.HelperAddr), insns[7].Address)
	assert.False(t, insns[7].Call)

	var out bytes.Buffer
	elf64disassembler.DisplayInstructions(&out, insns, true)
	assert.Equal(t, 1, bytes.Count(out.Bytes(), []byte("\n")))
	assert.Contains(t, out.String(), "<helper>")
	assert.Contains(t, out.String(), "e8 05 00 00 00")
}

func TestDisassembleBadBytes(t *testing.T) {
	insns := elf64disassembler.Disassemble([]byte{0xe8, 0x01}, 0x1000, nil)
	require.Len(t, insns, 2)
	for i, insn := range insns {
		assert.False(t, insn.Valid)
		assert.Equal(t, "(bad)", insn.Text)
		assert.Equal(t, uint64(0x1000+i), insn.Address)
	}
}

func TestDisassembleUnknownTarget(t *testing.T) {
	// call to an address without a symbol
	insns := elf64disassembler.Disassemble([]byte{0xe8, 0x00, 0x01, 0x00, 0x00}, 0x1000, nil)
	require.Len(t, insns, 1)
	assert.True(t, insns[0].Call)
	assert.Equal(t, uint64(0x1105), insns[0].CallTarget)
	assert.Empty(t, insns[0].CallName)
}

func TestDisassembleSectionErrors(t *testing.T) {
	analyser := analyse(t, elftest.Program())

	_, err := elf64disassembler.DisassembleSection(analyser, ".missing")
	assert.ErrorIs(t, err, elf64core.ErrSectionNotFound)

	_, err = elf64disassembler.DisassembleSection(analyser, elf64core.DataSection)
	assert.ErrorContains(t, err, "not executable")

	b := elftest.Program()
	b.Machine = 183
	_, err = elf64disassembler.DisassembleSection(analyse(t, b), elf64core.TextSection)
	assert.ErrorIs(t, err, elf64disassembler.ErrUnsupportedMachine)
}
