package main

import (
	"os"

	"github.com/rigado/btcodec"
	"github.com/rigado/btcodec/config"
	"github.com/urfave/cli"
)

var cfg = config.Default()

func main() {
	app := cli.NewApp()
	app.Name = "bqrtool"
	app.Usage = "decode Bluetooth quality reports and LE Audio metadata"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "config, c",
			Usage: "config file (default ~/" + config.CfgFilename + ")",
		},
		cli.StringFlag{
			Name:  "log-level",
			Usage: "override the configured log level",
		},
	}
	app.Before = func(c *cli.Context) error {
		loaded, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}
		cfg = loaded

		lvl := cfg.LogLevel
		if c.IsSet("log-level") {
			lvl = c.String("log-level")
		}
		btcodec.SetLogLevel(lvl)
		return nil
	}
	app.Commands = []cli.Command{
		cli.Command{
			Name:  "bqr",
			Usage: "Quality report codec",
			Subcommands: []cli.Command{
				cli.Command{
					Name:      "decode",
					Usage:     "Decode a raw quality report",
					ArgsUsage: "<hex>",
					Flags: []cli.Flag{
						cli.BoolFlag{
							Name:  "json",
							Usage: "Print JSON instead of text",
						},
					},
					Action: bqrDecodeCommand,
				},
				cli.Command{
					Name:      "encode",
					Usage:     "Decode then re-encode a report and check the bytes match",
					ArgsUsage: "<hex>",
					Action:    bqrEncodeCommand,
				},
			},
		},
		cli.Command{
			Name:  "ltv",
			Usage: "Length-type-value codec",
			Subcommands: []cli.Command{
				cli.Command{
					Name:      "decode",
					Usage:     "List the entries of an LTV buffer",
					ArgsUsage: "<hex>",
					Action:    ltvDecodeCommand,
				},
				cli.Command{
					Name:      "encode",
					Usage:     "Build an LTV buffer",
					ArgsUsage: "<type>=<hex> ...",
					Action:    ltvEncodeCommand,
				},
			},
		},
		cli.Command{
			Name:      "content",
			Usage:     "Decode LE Audio content metadata",
			ArgsUsage: "<hex>",
			Action:    contentCommand,
		},
		cli.Command{
			Name:      "codec",
			Usage:     "Decode LE Audio codec specific configuration",
			ArgsUsage: "<hex>",
			Action:    codecCommand,
		},
		cli.Command{
			Name:      "broadcast",
			Usage:     "Validate and print a broadcast source description",
			ArgsUsage: "<file.json>",
			Action:    broadcastCommand,
		},
		cli.Command{
			Name:  "monitor",
			Usage: "Decode quality reports from a controller",
			Flags: []cli.Flag{
				cli.IntFlag{
					Name:  "device",
					Usage: "hci device index, -1 for the first one",
					Value: -1,
				},
				cli.StringFlag{
					Name:  "h4s",
					Usage: "h4 socket server address",
				},
				cli.StringFlag{
					Name:  "h4u",
					Usage: "h4 uart path",
				},
				cli.UintFlag{
					Name:  "baud",
					Usage: "h4 uart baud rate",
				},
				cli.StringFlag{
					Name:  "metrics-addr",
					Usage: "serve Prometheus metrics on this address",
				},
				cli.BoolFlag{
					Name:  "no-cache",
					Usage: "Do not store reports in the cache",
				},
				cli.BoolFlag{
					Name:  "json",
					Usage: "Print JSON instead of text",
				},
			},
			Action: monitorCommand,
		},
		cli.Command{
			Name:  "cache",
			Usage: "Inspect stored reports",
			Subcommands: []cli.Command{
				cli.Command{
					Name:   "list",
					Usage:  "List the latest report per device",
					Action: cacheListCommand,
				},
				cli.Command{
					Name:      "show",
					Usage:     "Print the stored report for a device",
					ArgsUsage: "<addr>",
					Action:    cacheShowCommand,
				},
				cli.Command{
					Name:   "clear",
					Usage:  "Delete all stored reports",
					Action: cacheClearCommand,
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		btcodec.GetLogger().Error(err)
		os.Exit(1)
	}
}
