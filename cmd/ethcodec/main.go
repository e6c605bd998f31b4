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

// ethcodec is a command line tool for the Ethereum encodings: RLP, the
// contract ABI, EIP-712 typed data and transactions.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/PigCharid/ethercore/common/hexutil"
	"github.com/PigCharid/ethercore/log"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var (
	configFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	lenientFlag = &cli.BoolFlag{
		Name:  "lenient",
		Usage: "Accept non-canonical encodings when decoding",
	}
	verbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "Logging verbosity: crit, error, warn, info, debug, trace",
		Value: defaultConfig.Log.Level,
	}
	originsFlag = &cli.BoolFlag{
		Name:  "log.origins",
		Usage: "Print the call site of log records",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "ethcodec"
	app.Usage = "Ethereum encoding tool"
	app.Flags = []cli.Flag{configFileFlag, lenientFlag, verbosityFlag, originsFlag}
	app.Commands = []*cli.Command{
		rlpdumpCommand,
		abiCommand,
		eip712Command,
		txCommand,
		dumpConfigCommand,
	}
	app.Metadata = make(map[string]interface{})
	app.Before = func(ctx *cli.Context) error {
		cfg, err := makeConfig(ctx)
		if err != nil {
			return err
		}
		lvl, err := log.LvlFromString(cfg.Log.Level)
		if err != nil {
			return err
		}
		log.SetupTerminal(lvl)
		log.PrintOrigins(cfg.Log.Origins)
		ctx.App.Metadata["config"] = cfg
		return nil
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// config returns the configuration loaded before the command ran.
func config(ctx *cli.Context) ethcodecConfig {
	if cfg, ok := ctx.App.Metadata["config"].(ethcodecConfig); ok {
		return cfg
	}
	return defaultConfig
}

// decodeHex accepts hex input with or without the 0x prefix.
func decodeHex(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		s = "0x" + s
	}
	return hexutil.Decode(s)
}

// readInput returns the contents of the named file, or stdin for "-".
func readInput(ctx *cli.Context, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("missing input file argument")
	}
	if name == "-" {
		return io.ReadAll(ctx.App.Reader)
	}
	return os.ReadFile(name)
}
