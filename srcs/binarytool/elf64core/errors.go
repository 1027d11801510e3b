// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64core

import "errors"

// Format errors: the buffer does not hold what its own fields claim.
var (
	ErrBadMagic    = errors.New("bad ELF magic")
	ErrBadClass    = errors.New("not an ELF64 file")
	ErrBadEncoding = errors.New("unknown ELF data encoding")
	ErrTruncated   = errors.New("buffer too small for ELF64 header")
	ErrOutOfBounds = errors.New("range exceeds buffer bounds")
	ErrEntrySize   = errors.New("entry size mismatch")
	ErrInvalidText = errors.New("name is not valid UTF-8")
)

// Misuse errors: the caller asked for something the section cannot give.
var (
	ErrNotStringTable  = errors.New("section is not a string table")
	ErrSizeNotMultiple = errors.New("section size is not a multiple of the record size")
	ErrSectionIndex    = errors.New("section index out of range")
	ErrNoSectionNames  = errors.New("file has no section name string table")
	ErrSectionNotFound = errors.New("section not found")
	ErrSectionType     = errors.New("section has the wrong type")
)
