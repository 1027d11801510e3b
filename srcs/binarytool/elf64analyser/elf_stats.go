// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
	u "github.com/MiaoHao-oops/relf/srcs/common"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// ComparisonElf compares the pages of several files by hash.
type ComparisonElf struct {
	GroupFileSegment []*ElfFileSegment
	dictSamePage     map[string]int
	dictFile         map[string]map[string]int
}

// PageStats summarises a page comparison. Sharing counts every page whose
// hash occurs more than once across the group.
type PageStats struct {
	TotalPages   int
	SharingPages int
	SinglePages  int
	Ratio        float64
}

func (comparison *ComparisonElf) processDictName(filename, hash string) {
	comparison.dictFile[hash][filename]++
}

func (comparison *ComparisonElf) ComparePageTables() {
	comparison.dictSamePage = make(map[string]int)
	comparison.dictFile = make(map[string]map[string]int)

	for _, file := range comparison.GroupFileSegment {
		for _, p := range file.Pages {
			if _, ok := comparison.dictSamePage[p.hash]; !ok {
				comparison.dictFile[p.hash] = make(map[string]int)
			}
			comparison.dictSamePage[p.hash]++
			comparison.processDictName(file.Filename, p.hash)
		}
	}
}

// Stats must be called after ComparePageTables.
func (comparison *ComparisonElf) Stats() PageStats {
	var stats PageStats
	for _, value := range comparison.dictSamePage {
		if value > 1 {
			stats.SharingPages += value
		} else {
			stats.SinglePages++
		}
	}
	for _, file := range comparison.GroupFileSegment {
		stats.TotalPages += file.NbPages
	}
	if stats.TotalPages > 0 {
		stats.Ratio = float64(stats.SharingPages) / float64(stats.TotalPages) * 100
	}
	return stats
}

func (comparison *ComparisonElf) DisplayComparison(out io.Writer) {
	_, _ = fmt.Fprintln(out, "\nHash comparison:")
	hashes := make([]string, 0, len(comparison.dictFile))
	for hash := range comparison.dictFile {
		hashes = append(hashes, hash)
	}
	sort.Strings(hashes)
	for _, hash := range hashes {
		_, _ = fmt.Fprintln(out, hash, ";", comparison.dictFile[hash])
	}

	stats := comparison.Stats()
	_, _ = fmt.Fprintln(out, "---------------------------")
	_, _ = fmt.Fprintln(out, "\nStats:")
	_, _ = fmt.Fprintf(out, "- Total Nb of pages: %d\n", stats.TotalPages)
	_, _ = fmt.Fprintf(out, "- Nb page(s) sharing: %d\n", stats.SharingPages)
	_, _ = fmt.Fprintf(out, "- Page alone: %d\n", stats.SinglePages)
	_, _ = fmt.Fprintf(out, "- Ratio: %f\n", stats.Ratio)
}

// DiffComparison writes one HTML diff per page that differs between the two
// files of the group. It returns the number of files written.
func (comparison *ComparisonElf) DiffComparison(path string) (int, error) {
	if len(comparison.GroupFileSegment) != 2 {
		return 0, errors.New("page diff needs exactly two files")
	}

	pages1 := comparison.GroupFileSegment[0].Pages
	pages2 := comparison.GroupFileSegment[1].Pages
	minPages := len(pages1)
	if len(pages2) < minPages {
		minPages = len(pages2)
	}

	dmp := diffmatchpatch.New()
	written := 0
	for i := 0; i < minPages; i++ {
		page1, page2 := pages1[i], pages2[i]
		if page1.hash == page2.hash {
			continue
		}

		diffs := dmp.DiffMain(page1.pageContentToString(), page2.pageContentToString(), false)
		html := "<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\">" +
			"<title>Diff Pages</title></head><body style=\"font-family:Menlo\">" +
			dmp.DiffPrettyHtml(diffs) + "</body></html>"

		name := filepath.Join(path, "page_"+strconv.Itoa(page1.number)+"_diff.html")
		if err := os.WriteFile(name, []byte(html), 0644); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// DisplayStatSize prints for each allocated section the distance to the next
// one, which includes alignment padding, and the number of pages it spans.
func (analyser *ElfAnalyser) DisplayStatSize(out io.Writer) {
	sections := analyser.SectionsByAddress()
	if len(sections) == 0 {
		u.PrintWarning("Sections table is empty")
		return
	}

	w := newTabWriter(out)
	var totalSizeText, totalSizeElf uint64
	_, _ = fmt.Fprintln(w, separator)
	_, _ = fmt.Fprintf(w, "Name\tVirtual Size (Bytes/Hex)\t#pages\tInfos:\n")

	for i, s := range sections {
		size := s.Size
		currNext := ""
		// NOBITS sections such as .tbss overlap what follows them.
		if i+1 < len(sections) && s.Type != elf64core.SHT_NOBITS {
			next := sections[i+1]
			size = next.VirtualAddress - s.VirtualAddress
			currNext = fmt.Sprintf("0x%x -> 0x%x : (%s)-> (%s)", s.VirtualAddress,
				next.VirtualAddress, s.Name, next.Name)
		}
		totalSizeElf += size
		if s.Flags&elf64core.SHF_EXECINSTR != 0 {
			totalSizeText += size
		}
		_, _ = fmt.Fprintf(w, "%s\t%d (0x%x)\t%.2f\t%s\n", s.Name, size, size,
			float32(size)/float32(PageSize), currNext)
	}

	_, _ = fmt.Fprintf(w, "----------------------\t----------------------\t------\t----------------------------\n")
	_, _ = fmt.Fprintf(w, "Total Size:\n")
	_, _ = fmt.Fprintf(w, "Executable sections:\t%d (0x%x)\n", totalSizeText, totalSizeText)
	_, _ = fmt.Fprintf(w, "All sections:\t%d (0x%x)\n", totalSizeElf, totalSizeElf)
	_, _ = fmt.Fprintf(w, "#Pages (executable):\t%d\n", roundPage(totalSizeText))
	_, _ = fmt.Fprintf(w, "#Pages (all sections):\t%d\n", roundPage(totalSizeElf))
	_ = w.Flush()
}

// roundPage returns the number of pages needed to hold size bytes.
func roundPage(size uint64) uint64 {
	return uint64(math.Ceil(float64(size) / PageSize))
}
