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
	"bytes"
	"fmt"
	"strconv"

	"github.com/PigCharid/ethercore/abi"
	"github.com/PigCharid/ethercore/common/hexutil"
	"github.com/PigCharid/ethercore/value"
	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	typesFlag = &cli.StringFlag{
		Name:  "types",
		Usage: "comma separated ABI types of the arguments, e.g. address,uint256",
	}
	methodFlag = &cli.StringFlag{
		Name:  "method",
		Usage: "method signature; call data carries its 4 byte selector",
	}

	abiCommand = &cli.Command{
		Name:  "abi",
		Usage: "Contract ABI encoding",
		Subcommands: []*cli.Command{
			{
				Name:      "encode",
				Usage:     "Encode arguments given as a JSON array",
				ArgsUsage: "<json>",
				Action:    abiEncode,
				Flags:     []cli.Flag{typesFlag, methodFlag},
			},
			{
				Name:      "decode",
				Usage:     "Decode hex encoded arguments to a JSON array",
				ArgsUsage: "<hex>",
				Action:    abiDecode,
				Flags: []cli.Flag{typesFlag, methodFlag,
					&cli.BoolFlag{Name: "table", Usage: "print the values as a table"},
				},
			},
			{
				Name:      "selector",
				Usage:     "Print the selector of a method or the topic of an event",
				ArgsUsage: "<signature>",
				Action:    abiSelector,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "event", Usage: "treat the signature as an event"},
				},
			},
		},
	}
)

// argumentsType returns the tuple type of the arguments and, with --method,
// the selector prefixed to call data.
func argumentsType(ctx *cli.Context) (*value.Type, []byte, error) {
	switch {
	case ctx.IsSet(methodFlag.Name) && ctx.IsSet(typesFlag.Name):
		return nil, nil, errors.New("--types and --method are mutually exclusive")
	case ctx.IsSet(methodFlag.Name):
		m, err := abi.ParseMethod(ctx.String(methodFlag.Name))
		if err != nil {
			return nil, nil, err
		}
		fields := make([]value.Field, len(m.Inputs))
		for i, t := range m.Inputs.Types() {
			fields[i] = value.Field{Type: t}
		}
		t, err := value.NewTupleType("", fields...)
		return t, m.ID(), err
	case ctx.IsSet(typesFlag.Name):
		t, err := abi.ParseType("(" + ctx.String(typesFlag.Name) + ")")
		return t, nil, err
	}
	return nil, nil, errors.New("need --types or --method")
}

func abiEncode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a JSON array of arguments")
	}
	t, selector, err := argumentsType(ctx)
	if err != nil {
		return err
	}
	v, err := value.ParseJSON(t, []byte(ctx.Args().First()))
	if err != nil {
		return err
	}
	enc, err := abi.EncodeTuple(v.(*value.Tuple))
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(append(selector, enc...)))
	return nil
}

func abiDecode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need hex input")
	}
	t, selector, err := argumentsType(ctx)
	if err != nil {
		return err
	}
	data, err := decodeHex(ctx.Args().First())
	if err != nil {
		return err
	}
	if selector != nil {
		if len(data) < abi.SelectorLength || !bytes.Equal(data[:abi.SelectorLength], selector) {
			return errors.Wrapf(abi.ErrSelectorMismatch, "want %x", selector)
		}
		data = data[abi.SelectorLength:]
	}
	dec := abi.Decoder{Lenient: config(ctx).Codec.Lenient}
	tuple, err := dec.DecodeTuple(data, t)
	if err != nil {
		return err
	}
	if ctx.Bool("table") {
		return printTable(ctx, tuple)
	}
	out, err := value.MarshalJSON(tuple)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}

func printTable(ctx *cli.Context, tuple *value.Tuple) error {
	table := tablewriter.NewWriter(ctx.App.Writer)
	table.SetHeader([]string{"#", "Type", "Value"})
	table.SetAutoWrapText(false)
	for i := 0; i < tuple.Len(); i++ {
		field := tuple.Field(i)
		enc, err := value.MarshalJSON(field)
		if err != nil {
			return err
		}
		table.Append([]string{strconv.Itoa(i), field.Type().String(), string(enc)})
	}
	table.Render()
	return nil
}

func abiSelector(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a signature")
	}
	if ctx.Bool("event") {
		ev, err := abi.ParseEvent(ctx.Args().First())
		if err != nil {
			return err
		}
		fmt.Fprintln(ctx.App.Writer, ev.ID().Hex())
		return nil
	}
	m, err := abi.ParseMethod(ctx.Args().First())
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, hexutil.Encode(m.ID()))
	return nil
}
