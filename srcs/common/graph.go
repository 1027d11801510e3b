// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"os"
	"sort"
	"strconv"

	"github.com/awalterschulze/gographviz"
)

// CreateGraphLabel builds a directed graph where each key of data points to
// each of its values. mapLabel optionally sets the label of a node.
//
// It returns the graph and an error if any, otherwise it returns nil.
func CreateGraphLabel(name string, data map[string][]string,
	mapLabel map[string]string) (*gographviz.Graph, error) {

	graph := gographviz.NewGraph()
	if err := graph.SetName(strconv.Quote(name)); err != nil {
		return nil, err
	}
	if err := graph.SetDir(true); err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(data))
	for key := range data {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	addNode := func(node string) error {
		id := strconv.Quote(node)
		if graph.IsNode(id) {
			return nil
		}
		var attrs map[string]string
		if label, ok := mapLabel[node]; ok {
			attrs = map[string]string{"label": strconv.Quote(label)}
		}
		return graph.AddNode(graph.Name, id, attrs)
	}

	for _, key := range keys {
		if err := addNode(key); err != nil {
			return nil, err
		}
		for _, value := range data[key] {
			if err := addNode(value); err != nil {
				return nil, err
			}
			if err := graph.AddEdge(strconv.Quote(key), strconv.Quote(value), true, nil); err != nil {
				return nil, err
			}
		}
	}
	return graph, nil
}

// GenerateGraph saves the graph of data as fullPathName.dot.
//
// It returns an error if any, otherwise it returns nil.
func GenerateGraph(programName, fullPathName string, data map[string][]string,
	mapLabel map[string]string) error {

	graph, err := CreateGraphLabel(programName, data, mapLabel)
	if err != nil {
		return err
	}
	return os.WriteFile(fullPathName+".dot", []byte(graph.String()), 0644)
}
