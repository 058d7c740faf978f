//-----------------------------------------------------------------------------
// Copyright (C) Microsoft. All rights reserved.
// Licensed under the MIT license.
// See LICENSE.txt file in the project root for full license information.
//-----------------------------------------------------------------------------
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"weavelab.xyz/latsweep/config"
)

func main() {
	app := &cli.App{
		Name:    "latsweep",
		Usage:   "measure TCP round trip time as a function of payload size",
		Version: config.Version,
		Commands: []*cli.Command{
			{
				Name:      "server",
				Usage:     "acknowledge every request with the current time",
				ArgsUsage: "[flags] <port>",
				Flags:     config.ServerFlags(),
				Action:    runServer,
			},
			{
				Name:  "client",
				Usage: "sweep payload sizes N*k+8 for k in [0,M), Q round trips each",
				Description: "Sends Q payloads of each size to the server, one at a time, and waits for\n" +
					"the acknowledgement of each before sending the next. The average round trip\n" +
					"per size is printed and written to a CSV file. Flags go before <serverIP>.",
				ArgsUsage: "[flags] <serverIP> <port> <N> <M> <Q>",
				Flags:     config.ClientFlags(),
				Action:    runClient,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// exitError maps argument errors to exit code 2 with a usage hint.
func exitError(err error) error {
	if errors.Is(err, config.ErrArgument) {
		return cli.Exit(fmt.Sprintf("Error: %v\nPlease use \"latsweep help\" for the list of arguments.", err), 2)
	}
	return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
}
