// Copyright 2019 eBay Inc.
// Primary authors: Simon Fell, Diego Ongaro,
//                  Raymond Kroeker, and Sathish Kandasamy.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
// https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table formats rows of text into a table for human consumption.
package table

import (
	"bufio"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Options controls how the table is generated.
type Options int

const (
	// HeaderRow formats the first row as a header, with a divider between it
	// and the rest of the table.
	HeaderRow Options = 1 << iota
	// SkipEmpty writes nothing when the table has no rows besides the header.
	SkipEmpty
	// RightJustify pads cells on the left instead of the right.
	RightJustify
)

// PrettyPrint writes 'rows' as a table to 'dest'. Every row should have the
// same number of cells. Cells are single line; newlines in a cell are written
// as spaces.
func PrettyPrint(dest io.Writer, rows [][]string, opts Options) error {
	chrome := 0
	if opts&HeaderRow != 0 {
		chrome = 1
	}
	if len(rows) == 0 || (opts&SkipEmpty != 0 && len(rows) <= chrome) {
		return nil
	}
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], charsWide(cell))
		}
	}
	w := bufio.NewWriter(dest)
	for ridx, row := range rows {
		for i, cell := range row {
			cell = strings.ReplaceAll(cell, "\n", " ")
			pad := strings.Repeat(" ", widths[i]-charsWide(cell))
			w.WriteString(" ")
			if opts&RightJustify != 0 {
				w.WriteString(pad + cell)
			} else {
				w.WriteString(cell + pad)
			}
			w.WriteString(" |")
		}
		w.WriteString("\n")
		if ridx == 0 && chrome == 1 {
			for _, width := range widths {
				w.WriteString(" ")
				w.WriteString(strings.Repeat("-", width))
				w.WriteString(" |")
			}
			w.WriteString("\n")
		}
	}
	return w.Flush()
}

// charsWide estimates how wide a string will be on a typical terminal. It
// counts runes after NFC normalization, so a combining accent doesn't count
// as its own column.
func charsWide(s string) int {
	return utf8.RuneCountInString(norm.NFC.String(s))
}
