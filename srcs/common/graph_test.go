// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateGraphLabel(t *testing.T) {
	data := map[string][]string{
		"./prog":    {"libc.so.6", "libm.so.6"},
		"libm.so.6": {"libc.so.6"},
	}
	graph, err := CreateGraphLabel("needed", data, map[string]string{"./prog": "prog"})
	require.NoError(t, err)

	assert.Len(t, graph.Nodes.Nodes, 3)
	assert.Contains(t, graph.Edges.SrcToDsts[`"./prog"`], `"libm.so.6"`)
	assert.Contains(t, graph.Edges.SrcToDsts[`"libm.so.6"`], `"libc.so.6"`)
	assert.Equal(t, `"prog"`, graph.Nodes.Lookup[`"./prog"`].Attrs["label"])
}

func TestGenerateGraph(t *testing.T) {
	path := filepath.Join(t.TempDir(), "needed")
	require.NoError(t, GenerateGraph("needed", path, map[string][]string{"a": {"b"}}, nil))

	dot, err := os.ReadFile(path + ".dot")
	require.NoError(t, err)
	assert.Contains(t, string(dot), "digraph")
	assert.Contains(t, string(dot), `"a"->"b"`)
}
