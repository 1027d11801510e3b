// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package main

import (
	"os"

	"github.com/MiaoHao-oops/relf/srcs/binarytool"
	u "github.com/MiaoHao-oops/relf/srcs/common"
)

func main() {
	u.PrintHeader1("(*) RUN ELF64 BINARY ANALYSER")
	if err := binarytool.RunBinaryAnalyser(os.Args, os.Stdout); err != nil {
		u.PrintErr(err)
	}
}
