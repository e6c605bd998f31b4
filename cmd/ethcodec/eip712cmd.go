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

	"github.com/PigCharid/ethercore/eip712"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var eip712Command = &cli.Command{
	Name:  "eip712",
	Usage: "EIP-712 typed data hashing",
	Subcommands: []*cli.Command{
		{
			Name:      "hash",
			Usage:     "Print the domain separator, struct hash and digest of a typed data file",
			ArgsUsage: "<typed-data.json>",
			Action:    eip712Hash,
		},
		{
			Name:      "encodetype",
			Usage:     "Print the encoded type of the primary type",
			ArgsUsage: "<typed-data.json>",
			Action:    eip712EncodeType,
		},
	},
}

func loadTypedData(ctx *cli.Context) (*eip712.TypedData, error) {
	if ctx.NArg() != 1 {
		return nil, errors.New("need a typed data file (- for stdin)")
	}
	input, err := readInput(ctx, ctx.Args().First())
	if err != nil {
		return nil, err
	}
	return eip712.ParseTypedData(input)
}

func eip712Hash(ctx *cli.Context) error {
	td, err := loadTypedData(ctx)
	if err != nil {
		return err
	}
	hs, err := td.Hashes()
	if err != nil {
		return err
	}
	return printJSON(ctx, hs)
}

func eip712EncodeType(ctx *cli.Context) error {
	td, err := loadTypedData(ctx)
	if err != nil {
		return err
	}
	reg, err := td.Registry()
	if err != nil {
		return err
	}
	enc, err := reg.EncodeType(td.PrimaryType)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, enc)
	return nil
}
