// Copyright 2019 The UNICORE Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file

package common

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// PrintHeader1 prints a big header.
func PrintHeader1(text string) {
	magenta := color.New(color.FgMagenta, color.Bold)
	_, _ = magenta.Println(text)
}

// PrintInfo prints an informative message.
func PrintInfo(text string) {
	fmt.Println(color.CyanString("[*] ") + text)
}

// PrintOk prints a success message.
func PrintOk(text string) {
	fmt.Println(color.GreenString("[+] ") + text)
}

// PrintWarning prints a warning and continues.
func PrintWarning(text string) {
	fmt.Fprintln(os.Stderr, color.YellowString("[-] ")+text)
}

// PrintErr prints err and exits with status 1.
func PrintErr(err error) {
	fmt.Fprintln(os.Stderr, color.RedString("[ERROR] ")+err.Error())
	os.Exit(1)
}
