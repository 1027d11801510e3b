// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package binarytool

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ReadJsonFile reads the list of binaries to analyse.
func ReadJsonFile(path string) (*Binaries, error) {
	byteValue, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	binaries := new(Binaries)
	if err := json.Unmarshal(byteValue, binaries); err != nil {
		return nil, err
	}
	return binaries, nil
}

// hex2int parses an address with or without its 0x prefix.
func hex2int(hexStr string) (uint64, error) {
	cleaned := strings.TrimPrefix(strings.TrimPrefix(hexStr, "0x"), "0X")
	return strconv.ParseUint(cleaned, 16, 64)
}

func stringInSlice(name string, list []string) bool {
	for _, s := range list {
		if s == name {
			return true
		}
	}
	return false
}

// outputName derives a per-file output path from the position of the file
// on the command line and the base name of path.
func outputName(dir string, index int, path, suffix string) string {
	return filepath.Join(dir, strconv.Itoa(index)+"_"+filepath.Base(path)+suffix)
}
