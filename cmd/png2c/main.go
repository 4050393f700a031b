package main

import (
	"io/ioutil"
	"log"
	"os"

	"github.com/bodgit/png2c"
	"github.com/urfave/cli/v2"
)

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "png2c"
	app.Usage = "Convert indexed images to C arrays"
	app.Version = "1.0.0"
	app.ArgsUsage = "FILE..."

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			EnvVars: []string{"PNG2C_OUTPUT"},
			Usage:   "output directory",
		},
		&cli.BoolFlag{
			Name:    "tileset",
			Aliases: []string{"t"},
			EnvVars: []string{"PNG2C_TILESET"},
			Usage:   "add an empty tile in position 0",
		},
		&cli.BoolFlag{
			Name:    "palette",
			Aliases: []string{"p"},
			EnvVars: []string{"PNG2C_PALETTE"},
			Usage:   "add the palette to the generated files",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Action = func(c *cli.Context) error {
		if c.NArg() < 1 {
			cli.ShowAppHelpAndExit(c, 1)
		}

		logger := log.New(ioutil.Discard, "", 0)
		if c.Bool("verbose") {
			logger.SetOutput(os.Stderr)
		}

		opts := png2c.Options{
			Tileset: c.Bool("tileset"),
			Palette: c.Bool("palette"),
		}

		converter := png2c.New(logger)
		for _, file := range c.Args().Slice() {
			if err := converter.ConvertFile(file, c.String("output"), opts); err != nil {
				return cli.Exit(err, 1)
			}
		}

		return nil
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
