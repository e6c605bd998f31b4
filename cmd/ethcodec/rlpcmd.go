// Copyright 2021 The go-ethereum Authors
// This file is part of go-ethereum.
//
// go-ethereum is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// go-ethereum is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with go-ethereum. If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/PigCharid/ethercore/common/hexutil"
	"github.com/PigCharid/ethercore/rlp"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var rlpdumpCommand = &cli.Command{
	Action:    rlpdump,
	Name:      "rlpdump",
	Usage:     "Dump the structure of an RLP value",
	ArgsUsage: "<hex>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:  "file",
			Usage: "read raw RLP bytes from a file (- for stdin) instead of a hex argument",
		},
	},
	Description: `
Prints the structure of a single RLP value. Lists are shown in brackets,
strings as quoted text when printable and as hex otherwise.`,
}

func rlpdump(ctx *cli.Context) error {
	var (
		input []byte
		err   error
	)
	if file := ctx.String("file"); file != "" {
		input, err = readInput(ctx, file)
	} else {
		if ctx.NArg() != 1 {
			return errors.New("need hex input or --file")
		}
		input, err = decodeHex(ctx.Args().First())
	}
	if err != nil {
		return err
	}
	dec := rlp.Decoder{Lenient: config(ctx).Codec.Lenient}
	it, err := dec.DecodeItem(input)
	if err != nil {
		return err
	}
	dump(ctx.App.Writer, it, 0)
	fmt.Fprintln(ctx.App.Writer)
	return nil
}

func dump(out io.Writer, it rlp.Item, depth int) {
	if !it.IsList {
		if isASCII(it.Str) {
			fmt.Fprintf(out, "%s%q", ws(depth), it.Str)
		} else {
			fmt.Fprintf(out, "%s%s", ws(depth), hexutil.Encode(it.Str))
		}
		return
	}
	if len(it.Items) == 0 {
		fmt.Fprintf(out, "%s[]", ws(depth))
		return
	}
	fmt.Fprintf(out, "%s[\n", ws(depth))
	for i, child := range it.Items {
		if i > 0 {
			fmt.Fprint(out, ",\n")
		}
		dump(out, child, depth+1)
	}
	fmt.Fprint(out, "\n", ws(depth), "]")
}

func isASCII(b []byte) bool {
	for _, c := range b {
		if c < 32 || c > 126 {
			return false
		}
	}
	return true
}

func ws(n int) string {
	return strings.Repeat("  ", n)
}
