// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package binarytool

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64analyser"
	u "github.com/MiaoHao-oops/relf/srcs/common"
)

const pagesSuffix = ".pages"

type BinaryManager struct {
	Binaries []*Binary
}

// RunBinaryAnalyser runs the binary analyser with the command line argv and
// writes the reports to out.
func RunBinaryAnalyser(argv []string, out io.Writer) error {

	// Init and parse local arguments
	args := new(u.Arguments)
	p, err := args.InitArguments("relf",
		"Read and compare ELF64 files: headers, sections, segments, symbols, "+
			"relocations, pages and code")
	if err != nil {
		return err
	}
	if err := parseLocalArguments(p, args, argv); err != nil {
		return err
	}

	// Check if a json file is used or if it is via command line
	manager := new(BinaryManager)
	if len(*args.StringArg[configArg]) > 0 {
		binaries, err := ReadJsonFile(*args.StringArg[configArg])
		if err != nil {
			return err
		}
		manager.Binaries = binaries.Binaries
	} else if len(*args.StringListArg[filesArg]) > 0 {
		for _, path := range *args.StringListArg[filesArg] {
			manager.Binaries = append(manager.Binaries, &Binary{
				Path:                 path,
				DisplayElfFile:       *args.StringListArg[displayArg],
				DisplayStatSize:      *args.BoolArg[statsArg],
				DisplaySectionInfo:   *args.StringListArg[sectionInfoArg],
				FindSectionByAddress: *args.StringListArg[addressArg],
				Disassemble:          *args.StringArg[disassArg],
				CallsOnly:            *args.BoolArg[callsArg],
				Graph:                *args.StringArg[graphArg],
			})
		}
	} else {
		return errors.New("argument(s) must be provided")
	}

	if *args.BoolArg[interactiveArg] {
		selected, err := selectReports()
		if err != nil {
			return err
		}
		for _, b := range manager.Binaries {
			b.DisplayElfFile = selected
		}
	}

	for i, b := range manager.Binaries {
		u.PrintInfo("Loading " + b.Path)
		if err := b.Load(); err != nil {
			return err
		}
		if len(manager.Binaries) > 1 {
			_, _ = fmt.Fprintf(out, "==========[(%d): %s]==========\n", i, b.Path)
		}
		if err := manager.analyse(b, out); err != nil {
			return err
		}
	}

	if *args.BoolArg[diffArg] {
		if len(manager.Binaries) < 2 {
			return errors.New("diff needs two files")
		}
		diff, changed := elf64analyser.DiffReports(manager.Binaries[0].Analyser,
			manager.Binaries[1].Analyser)
		if changed {
			_, _ = fmt.Fprintln(out, diff)
		} else {
			u.PrintOk("Reports are identical")
		}
	}

	if graphPath := *args.StringArg[neededArg]; len(graphPath) > 0 {
		if err := u.GenerateGraph("needed", graphPath, manager.neededLibs(), nil); err != nil {
			return err
		}
		u.PrintOk("Graph saved to " + graphPath + ".dot")
	}

	if pagesDir := *args.StringArg[pagesArg]; len(pagesDir) > 0 {
		if err := manager.comparePages(pagesDir, *args.BoolArg[shortPagesArg], out); err != nil {
			return err
		}
	}
	return nil
}

func (manager *BinaryManager) analyse(b *Binary, out io.Writer) error {
	if len(b.DisplayElfFile) > 0 {
		b.DisplayElfInfo(out)
	}
	if b.DisplayStatSize {
		b.Analyser.DisplayStatSize(out)
	}
	if len(b.DisplaySectionInfo) > 0 {
		b.Analyser.DisplaySectionInfo(out, b.DisplaySectionInfo)
	}
	if len(b.FindSectionByAddress) > 0 {
		b.FindSectionsByAddress(out)
	}
	if len(b.Disassemble) > 0 {
		if err := b.DisassembleSection(out); err != nil {
			return err
		}
	}
	if len(b.Graph) > 0 {
		filename := b.Path + b.Graph
		if err := b.Analyser.SaveGraph(b.Path, filename); err != nil {
			return err
		}
		u.PrintOk("Graph saved to " + filename)
	}
	return nil
}

// neededLibs maps each file to the DT_NEEDED entries of its dynamic table.
func (manager *BinaryManager) neededLibs() map[string][]string {
	needed := make(map[string][]string)
	for _, b := range manager.Binaries {
		needed[b.Path] = nil
		if b.Analyser.DynamicTable != nil {
			needed[b.Path] = b.Analyser.DynamicTable.Needed
		}
	}
	return needed
}

// comparePages saves the pages of every file to dir, then compares them by
// hash. With exactly two files, the differing pages are also diffed.
func (manager *BinaryManager) comparePages(dir string, shortView bool, out io.Writer) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var comparison elf64analyser.ComparisonElf
	for i, b := range manager.Binaries {
		segment, err := b.Analyser.ComputeElfPages(b.Path)
		if err != nil {
			return err
		}
		if err := elf64analyser.SavePagesToFile(segment.Pages,
			outputName(dir, i, b.Path, pagesSuffix), shortView); err != nil {
			return err
		}
		comparison.GroupFileSegment = append(comparison.GroupFileSegment, segment)
	}
	u.PrintOk("Pages files have been saved to " + dir)

	comparison.ComparePageTables()
	comparison.DisplayComparison(out)

	if len(comparison.GroupFileSegment) == 2 {
		n, err := comparison.DiffComparison(dir)
		if err != nil {
			return err
		}
		u.PrintOk(strconv.Itoa(n) + " diff file(s) have been saved to " + dir)
	}
	return nil
}

// selectReports asks which reports to display.
func selectReports() ([]string, error) {
	prompt := &survey.MultiSelect{
		Message:  "Select the reports to display",
		Options:  displayOptions,
		Default:  []string{headerDisplay, sectionsDisplay},
		PageSize: len(displayOptions),
	}

	var selected []string
	if err := survey.AskOne(prompt, &selected); err != nil {
		return nil, err
	}
	return selected, nil
}
