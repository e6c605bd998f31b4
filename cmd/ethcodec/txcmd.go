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

	"github.com/PigCharid/ethercore/common"
	"github.com/PigCharid/ethercore/common/hexutil"
	"github.com/PigCharid/ethercore/core/types"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var txCommand = &cli.Command{
	Name:  "tx",
	Usage: "Transaction encoding",
	Subcommands: []*cli.Command{
		{
			Name:      "hash",
			Usage:     "Print the signing hash of a transaction request",
			ArgsUsage: "<tx.json>",
			Action:    txHash,
		},
		{
			Name:      "decode",
			Usage:     "Decode a signed transaction",
			ArgsUsage: "<hex>",
			Action:    txDecode,
		},
	},
}

type txHashResult struct {
	Type        hexutil.Uint64 `json:"type"`
	Payload     hexutil.Bytes  `json:"payload"`
	SigningHash common.Hash    `json:"signingHash"`
}

type txDecodeResult struct {
	Tx          jsoniter.RawMessage `json:"tx"`
	V           hexutil.Uint64      `json:"v"`
	R           hexutil.Bytes       `json:"r"`
	S           hexutil.Bytes       `json:"s"`
	SigningHash common.Hash         `json:"signingHash"`
	Hash        common.Hash         `json:"hash"`
}

func txHash(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need a transaction file (- for stdin)")
	}
	input, err := readInput(ctx, ctx.Args().First())
	if err != nil {
		return err
	}
	tx, err := types.ParseTxJSON(input)
	if err != nil {
		return err
	}
	return printJSON(ctx, txHashResult{
		Type:        hexutil.Uint64(tx.TxType()),
		Payload:     types.SigningPayload(tx),
		SigningHash: types.SigningHash(tx),
	})
}

func txDecode(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return errors.New("need hex input")
	}
	input, err := decodeHex(ctx.Args().First())
	if err != nil {
		return err
	}
	var tx types.Transaction
	if err := tx.UnmarshalBinary(input); err != nil {
		return err
	}
	enc, err := types.MarshalTxJSON(tx.Data())
	if err != nil {
		return err
	}
	sig := tx.Signature()
	return printJSON(ctx, txDecodeResult{
		Tx:          enc,
		V:           hexutil.Uint64(sig.V),
		R:           sig.R.Bytes(),
		S:           sig.S.Bytes(),
		SigningHash: tx.SigningHash(),
		Hash:        tx.Hash(),
	})
}

func printJSON(ctx *cli.Context, v interface{}) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(out))
	return nil
}
