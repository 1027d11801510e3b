// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package elf64analyser

import (
	"fmt"
	"os"
	"strconv"

	"github.com/MiaoHao-oops/relf/srcs/binarytool/elf64core"
	"github.com/awalterschulze/gographviz"
)

func sectionNodeName(index int) string { return "sec" + strconv.Itoa(index) }
func segmentNodeName(index int) string { return "seg" + strconv.Itoa(index) }

// BuildGraph returns a directed graph of the references between sections
// (sh_link, and sh_info for relocation sections) and of the sections each
// segment covers.
func (analyser *ElfAnalyser) BuildGraph(name string) (*gographviz.Graph, error) {
	graph := gographviz.NewGraph()
	if err := graph.SetName(strconv.Quote(name)); err != nil {
		return nil, err
	}
	if err := graph.SetDir(true); err != nil {
		return nil, err
	}

	for i, s := range analyser.Sections {
		if s.Type == elf64core.SHT_NULL {
			continue
		}
		attrs := map[string]string{
			"shape": "box",
			"label": strconv.Quote(fmt.Sprintf("[%d] %s\n%s", i, s.Name, s.Type)),
		}
		if err := graph.AddNode(graph.Name, sectionNodeName(i), attrs); err != nil {
			return nil, err
		}
	}

	for i, s := range analyser.Sections {
		if s.Type == elf64core.SHT_NULL {
			continue
		}
		if s.LinkedIndex != 0 && int(s.LinkedIndex) < len(analyser.Sections) {
			if err := analyser.addEdge(graph, sectionNodeName(i), int(s.LinkedIndex), "sh_link"); err != nil {
				return nil, err
			}
		}
		// sh_info holds a section index only for relocation sections.
		if (s.Type == elf64core.SHT_RELA || s.Type == elf64core.SHT_REL) &&
			s.Info != 0 && int(s.Info) < len(analyser.Sections) {
			if err := analyser.addEdge(graph, sectionNodeName(i), int(s.Info), "sh_info"); err != nil {
				return nil, err
			}
		}
	}

	for i, p := range analyser.Segments {
		attrs := map[string]string{
			"shape": "ellipse",
			"label": strconv.Quote(fmt.Sprintf("%s %s", p.Type, p.Flags)),
		}
		if err := graph.AddNode(graph.Name, segmentNodeName(i), attrs); err != nil {
			return nil, err
		}
		for _, s := range p.Sections {
			if err := analyser.addEdge(graph, segmentNodeName(i), s.Index, ""); err != nil {
				return nil, err
			}
		}
	}

	return graph, nil
}

func (analyser *ElfAnalyser) addEdge(graph *gographviz.Graph, src string, dst int, label string) error {
	var attrs map[string]string
	if len(label) > 0 {
		attrs = map[string]string{"label": strconv.Quote(label)}
	}
	return graph.AddEdge(src, sectionNodeName(dst), true, attrs)
}

// SaveGraph writes the graph of the file as a DOT file.
func (analyser *ElfAnalyser) SaveGraph(name, filename string) error {
	graph, err := analyser.BuildGraph(name)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, []byte(graph.String()), 0644)
}
