// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package binarytool

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MiaoHao-oops/relf/srcs/internal/elftest"
)

func writeProgram(t *testing.T, dir, name string, b *elftest.Builder) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, b.Bytes(), 0644))
	return path
}

func run(t *testing.T, argv ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := RunBinaryAnalyser(append([]string{"relf"}, argv...), &out)
	return out.String(), err
}

func TestRunDisplay(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "prog", elftest.Program())

	out, err := run(t, "-f", path, "-d", headerDisplay, "-d", symbolsDisplay)
	require.NoError(t, err)
	assert.Contains(t, out, "EM_X86_64")
	assert.Contains(t, out, "counter")
	assert.NotContains(t, out, "libc.so.6")

	out, err = run(t, "-f", path, "-d", allDisplay)
	require.NoError(t, err)
	assert.Contains(t, out, "libc.so.6")
	assert.Contains(t, out, "R_X86_64_PLT32")
	assert.Contains(t, out, "helper")
}

func TestRunDisplayWithoutSectionNames(t *testing.T) {
	raw := elftest.Program().Bytes()
	binary.LittleEndian.PutUint16(raw[elftest.OffShstrndx:], 0)
	path := filepath.Join(t.TempDir(), "prog")
	require.NoError(t, os.WriteFile(path, raw, 0644))

	out, err := run(t, "-f", path, "-d", headerDisplay, "-d", segmentsDisplay)
	require.NoError(t, err)
	assert.Contains(t, out, "EM_X86_64")
	assert.Contains(t, out, "LOAD")
}

func TestRunQueries(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "prog", elftest.Program())

	out, err := run(t, "-f", path, "-a", "0x402008", "-a", "zz", "-i", ".text", "-s")
	require.NoError(t, err)
	assert.Contains(t, out, "Address 0x402008 is in section .bss")
	assert.Contains(t, out, "0x401000")
	assert.Contains(t, out, "All sections:")

	out, err = run(t, "-f", path, "-x", ".text", "-k")
	require.NoError(t, err)
	assert.Contains(t, out, "<helper>")
	assert.NotContains(t, out, "(bad)")

	_, err = run(t, "-f", path, "-x", ".data")
	assert.Error(t, err)
}

func TestRunGraph(t *testing.T) {
	path := writeProgram(t, t.TempDir(), "prog", elftest.Program())

	_, err := run(t, "-f", path, "-g", ".dot")
	require.NoError(t, err)
	assert.FileExists(t, path+".dot")
}

func TestRunNeededGraph(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "prog", elftest.Program())

	_, err := run(t, "-f", path, "-n", filepath.Join(dir, "needed"))
	require.NoError(t, err)
	dot, err := os.ReadFile(filepath.Join(dir, "needed.dot"))
	require.NoError(t, err)
	assert.Contains(t, string(dot), `"libc.so.6"`)
}

func TestRunDiffAndPages(t *testing.T) {
	dir := t.TempDir()
	first := writeProgram(t, dir, "first", elftest.Program())
	b := elftest.Program()
	b.Entry = elftest.HelperAddr
	second := writeProgram(t, dir, "second", b)
	pagesDir := filepath.Join(dir, "pages")

	out, err := run(t, "-f", first, "-f", second, "-D", "-p", pagesDir)
	require.NoError(t, err)
	assert.Contains(t, out, "0x40100b")
	// The entry point is not part of any loadable segment.
	assert.Contains(t, out, "- Ratio: 100.000000")
	assert.FileExists(t, filepath.Join(pagesDir, "0_first"+pagesSuffix))
	assert.FileExists(t, filepath.Join(pagesDir, "1_second"+pagesSuffix))

	_, err = run(t, "-f", first, "-D")
	assert.Error(t, err)
}

func TestRunPagesSameBaseName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0755))
	first := writeProgram(t, filepath.Join(dir, "a"), "prog", elftest.Program())
	second := writeProgram(t, filepath.Join(dir, "b"), "prog", elftest.Program())
	pagesDir := filepath.Join(dir, "pages")

	_, err := run(t, "-f", first, "-f", second, "-p", pagesDir)
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(pagesDir, "0_prog"+pagesSuffix))
	assert.FileExists(t, filepath.Join(pagesDir, "1_prog"+pagesSuffix))

	entries, err := os.ReadDir(pagesDir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	path := writeProgram(t, dir, "prog", elftest.Program())
	config := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(config, []byte(`{"binaries": [
		{"path": "`+path+`", "displayElfFile": ["dynamics"], "findSectionByAddress": ["401003"]}
	]}`), 0644))

	out, err := run(t, "-c", config)
	require.NoError(t, err)
	assert.Contains(t, out, "Shared library: [libc.so.6]")
	assert.Contains(t, out, "Address 401003 is in section .text")
}

func TestRunErrors(t *testing.T) {
	_, err := run(t)
	assert.EqualError(t, err, "argument(s) must be provided")

	_, err = run(t, "-f", filepath.Join(t.TempDir(), "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = run(t, "-c", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "garbage")
	require.NoError(t, os.WriteFile(path, []byte("not an elf file"), 0644))
	_, err = run(t, "-f", path)
	assert.Error(t, err)
}

func TestHex2int(t *testing.T) {
	v, err := hex2int("0x401000")
	require.NoError(t, err)
	assert.Equal(t, uint64(0x401000), v)

	v, err = hex2int("ff")
	require.NoError(t, err)
	assert.Equal(t, uint64(0xff), v)

	_, err = hex2int("0xzz")
	assert.Error(t, err)
}
