// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package binarytool

import (
	"github.com/akamensky/argparse"

	u "github.com/MiaoHao-oops/relf/srcs/common"
)

const (
	filesArg       = "file"
	configArg      = "config"
	displayArg     = "display"
	statsArg       = "stats"
	sectionInfoArg = "section-info"
	addressArg     = "address"
	disassArg      = "disassemble"
	callsArg       = "calls"
	graphArg       = "graph"
	diffArg        = "diff"
	pagesArg       = "pages"
	shortPagesArg  = "short-pages"
	interactiveArg = "interactive"
	neededArg      = "needed"
)

// parseLocalArguments parses arguments of the application.
//
// It returns an error if any, otherwise it returns nil.
func parseLocalArguments(p *argparse.Parser, args *u.Arguments, argv []string) error {

	args.InitArgParse(p, args, u.STRINGLIST, "f", filesArg,
		&argparse.Options{Required: false, Help: "ELF64 file(s) to analyse"})
	args.InitArgParse(p, args, u.STRING, "c", configArg,
		&argparse.Options{Required: false, Help: "Json file that contains " +
			"the information for the binary analyser"})
	args.InitArgParse(p, args, u.STRINGLIST, "d", displayArg,
		&argparse.Options{Required: false, Help: "Report(s) to display: " +
			"header, sections, segments, mapping, symbols, relocations, " +
			"dynamics, notes, functions or all"})
	args.InitArgParse(p, args, u.BOOL, "s", statsArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Display the size of allocated sections"})
	args.InitArgParse(p, args, u.STRINGLIST, "i", sectionInfoArg,
		&argparse.Options{Required: false, Help: "Display address, offset and size of a section"})
	args.InitArgParse(p, args, u.STRINGLIST, "a", addressArg,
		&argparse.Options{Required: false, Help: "Find the section(s) holding an address (hex)"})
	args.InitArgParse(p, args, u.STRING, "x", disassArg,
		&argparse.Options{Required: false, Help: "Disassemble an executable section (x86-64)"})
	args.InitArgParse(p, args, u.BOOL, "k", callsArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Only list call instructions when disassembling"})
	args.InitArgParse(p, args, u.STRING, "g", graphArg,
		&argparse.Options{Required: false, Help: "Save the section reference graph " +
			"of each file as a DOT file with this suffix"})
	args.InitArgParse(p, args, u.BOOL, "D", diffArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Diff the reports of the first two files"})
	args.InitArgParse(p, args, u.STRING, "p", pagesArg,
		&argparse.Options{Required: false, Help: "Folder where the pages of loadable " +
			"segments are saved and compared"})
	args.InitArgParse(p, args, u.BOOL, "P", shortPagesArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Only save non-null bytes of pages"})
	args.InitArgParse(p, args, u.STRING, "n", neededArg,
		&argparse.Options{Required: false, Help: "Save the graph of the shared " +
			"libraries needed by the files (DOT, without extension)"})
	args.InitArgParse(p, args, u.BOOL, "I", interactiveArg,
		&argparse.Options{Required: false, Default: false,
			Help: "Select the reports to display interactively"})

	return u.ParserWrapper(p, argv)
}
