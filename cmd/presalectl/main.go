// Command presalectl is the operator tool of the presale backend.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/urfave/cli.v1"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "presalectl"
	app.Usage = "operate the presale backend"
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config",
			Usage: "path to config file (PSB_ environment variables override it)",
		},
	}
	app.Commands = []cli.Command{
		{
			Name:   "reconcile",
			Usage:  "run one reconciliation pass and print its report",
			Action: reconcileCmd,
		},
		{
			Name:  "tokens",
			Usage: "list stored token configurations",
			Flags: []cli.Flag{
				cli.BoolFlag{
					Name:  "seed",
					Usage: "upsert the configured tokens before listing",
				},
			},
			Action: tokensCmd,
		},
		{
			Name:      "hash-admin-key",
			Usage:     "print the Argon2id hash of an admin API key",
			ArgsUsage: "<key>",
			Action:    hashAdminKeyCmd,
		},
		{
			Name:      "encrypt-key",
			Usage:     "encrypt a settlement signer private key for chain.signer_key_enc",
			ArgsUsage: "<hex private key>",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "aes-key",
					Usage: "hex AES-256 key, defaults to aes.key from config",
				},
			},
			Action: encryptKeyCmd,
		},
	}
	return app
}
