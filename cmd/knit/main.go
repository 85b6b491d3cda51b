package main

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/davidje13/knit"
	knitimage "github.com/davidje13/knit/image"
	"github.com/urfave/cli/v2"
)

const defaultDB = "knit.db"

func init() {
	cli.VersionFlag = &cli.BoolFlag{
		Name:    "version",
		Aliases: []string{"V"},
		Usage:   "print the version",
	}
}

func newLogger(c *cli.Context) *log.Logger {
	logger := log.New(ioutil.Discard, "", 0)
	if c.Bool("verbose") {
		logger.SetOutput(os.Stderr)
	}
	return logger
}

func openKnit(c *cli.Context) (*knit.Knit, error) {
	return knit.New(c.String("db"), newLogger(c))
}

// patternArg returns the pattern text given as argument n, reading it from
// standard input if the argument is "-".
func patternArg(c *cli.Context, n int) (string, error) {
	s := c.Args().Get(n)
	if s == "-" {
		b, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		s = string(b)
	}
	return strings.TrimSpace(s), nil
}

func requireArgs(c *cli.Context, n int) {
	if c.NArg() < n {
		cli.ShowCommandHelpAndExit(c, c.Command.FullName(), 1)
	}
}

func main() {
	app := cli.NewApp()

	app.Name = "knit"
	app.Usage = "Colorwork pattern codec and library"
	app.Version = "1.0.0"

	cwd, err := os.Getwd()
	if err != nil {
		log.Fatal(err)
	}

	app.Flags = []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			EnvVars: []string{"KNIT_DB"},
			Value:   filepath.Join(cwd, defaultDB),
			Usage:   "path to database",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"v"},
			Usage:   "increase verbosity",
		},
	}

	app.Commands = []*cli.Command{
		{
			Name:        "encode",
			Usage:       "Convert an image to pattern text",
			Description: "Images with more than 255 colors are reduced with a median cut quantizer.",
			ArgsUsage:   "FILE",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:  "name",
					Usage: "also store the pattern in the library under `NAME`",
				},
			},
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				f, err := os.Open(c.Args().First())
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				m, _, err := image.Decode(f)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				var b strings.Builder
				if err := knitimage.Encode(&b, m); err != nil {
					return cli.NewExitError(err, 1)
				}

				if name := c.String("name"); name != "" {
					k, err := openKnit(c)
					if err != nil {
						return cli.NewExitError(err, 1)
					}
					defer k.Close()

					if _, err := k.DB().Add(name, b.String()); err != nil {
						return cli.NewExitError(err, 1)
					}
				}

				fmt.Println(b.String())
				return nil
			},
		},
		{
			Name:      "decode",
			Usage:     "Render pattern text as a PNG",
			ArgsUsage: "TEXT FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Value: 16,
					Usage: "size of each cell in pixels",
				},
			},
			Action: func(c *cli.Context) error {
				requireArgs(c, 2)

				s, err := patternArg(c, 0)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				f, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				if err := knit.WritePNG(f, s, c.Int("scale")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "inspect",
			Usage:     "Describe pattern text",
			ArgsUsage: "TEXT",
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				s, err := patternArg(c, 0)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				info, err := knit.Inspect(s)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				if err := info.Print(os.Stdout); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "transform",
			Usage:     "Mirror, rotate, shift or resize pattern text",
			ArgsUsage: "TEXT",
			Flags: []cli.Flag{
				&cli.BoolFlag{Name: "mirror-x", Usage: "flip left to right"},
				&cli.BoolFlag{Name: "mirror-y", Usage: "flip top to bottom"},
				&cli.BoolFlag{Name: "transpose", Usage: "swap rows and columns"},
				&cli.IntFlag{Name: "rotate", Usage: "rotate clockwise by `N` quarter turns"},
				&cli.IntFlag{Name: "shift-x", Usage: "pan left by `N` cells"},
				&cli.IntFlag{Name: "shift-y", Usage: "pan up by `N` cells"},
				&cli.IntFlag{Name: "width", Usage: "resize to `N` cells wide"},
				&cli.IntFlag{Name: "height", Usage: "resize to `N` cells high"},
				&cli.IntFlag{Name: "fill", Usage: "palette index for cells added by resizing"},
			},
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				s, err := patternArg(c, 0)
				if err != nil {
					return cli.NewExitError(err, 1)
				}

				t := knit.Transform{
					MirrorX:   c.Bool("mirror-x"),
					MirrorY:   c.Bool("mirror-y"),
					Transpose: c.Bool("transpose"),
					Rotate:    c.Int("rotate"),
					ShiftX:    c.Int("shift-x"),
					ShiftY:    c.Int("shift-y"),
					Width:     c.Int("width"),
					Height:    c.Int("height"),
					Fill:      c.Int("fill"),
				}

				out, err := t.Apply(s)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				fmt.Println(out)

				return nil
			},
		},
		{
			Name:        "import",
			Usage:       "Import every image in a directory into the library",
			Description: "Patterns are named after each file's path relative to DIRECTORY.",
			ArgsUsage:   "DIRECTORY",
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				k, err := openKnit(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer k.Close()

				if err := k.Scan(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:  "list",
			Usage: "List patterns in the library",
			Action: func(c *cli.Context) error {
				k, err := openKnit(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer k.Close()

				patterns, err := k.DB().List()
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				for _, p := range patterns {
					fmt.Printf("%s\t%dx%d\t%d colors\t%s\n", p.Name, p.Width, p.Height, p.Colors, p.Data)
				}

				return nil
			},
		},
		{
			Name:      "export",
			Usage:     "Render a library pattern as a PNG",
			ArgsUsage: "NAME FILE",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:  "scale",
					Value: 16,
					Usage: "size of each cell in pixels",
				},
			},
			Action: func(c *cli.Context) error {
				requireArgs(c, 2)

				k, err := openKnit(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer k.Close()

				f, err := os.Create(c.Args().Get(1))
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer f.Close()

				if err := k.Export(c.Args().First(), f, c.Int("scale")); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
		{
			Name:      "delete",
			Usage:     "Remove a pattern from the library",
			ArgsUsage: "NAME",
			Action: func(c *cli.Context) error {
				requireArgs(c, 1)

				k, err := openKnit(c)
				if err != nil {
					return cli.NewExitError(err, 1)
				}
				defer k.Close()

				if err := k.DB().Delete(c.Args().First()); err != nil {
					return cli.NewExitError(err, 1)
				}

				return nil
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
