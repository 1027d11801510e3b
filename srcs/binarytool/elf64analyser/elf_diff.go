// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// Report returns the full textual report of the file.
func (analyser *ElfAnalyser) Report() string {
	var builder strings.Builder
	analyser.DisplayAll(&builder)
	return builder.String()
}

// DiffReports compares the reports of two files line by line. It returns
// the coloured diff and whether the reports differ.
func DiffReports(a, b *ElfAnalyser) (string, bool) {
	dmp := diffmatchpatch.New()

	text1, text2, lines := dmp.DiffLinesToChars(a.Report(), b.Report())
	diffs := dmp.DiffMain(text1, text2, false)
	diffs = dmp.DiffCharsToLines(diffs, lines)

	changed := false
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			changed = true
			break
		}
	}
	return dmp.DiffPrettyText(diffs), changed
}
