// Command invoicectl renders and inspects invoice and quotation documents
// without running the server.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"invoicepro/builder"
	"invoicepro/logging"
	"invoicepro/models"
	"invoicepro/numbering"
	"invoicepro/render"
	"invoicepro/utils"
	"invoicepro/validation"

	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "invoicectl",
		Usage: "render and inspect invoice/quotation PDFs",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "log-level", Value: "warn", EnvVars: []string{"LOG_LEVEL"}},
		},
		Commands: []*cli.Command{
			renderCommand(),
			wordsCommand(),
			filenameCommand(),
			nextCommand(),
		},
	}
}

func renderCommand() *cli.Command {
	return &cli.Command{
		Name:      "render",
		Usage:     "render a form JSON file to PDF",
		ArgsUsage: "FORM.json",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "seq", Value: 1, Usage: "sequence used when the form carries none"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output path (default: export file name)"},
			&cli.StringFlag{Name: "logo", EnvVars: []string{"LOGO_PATH"}},
			&cli.StringFlag{Name: "upi", EnvVars: []string{"UPI_ID"}},
			&cli.StringFlag{Name: "website", EnvVars: []string{"WEBSITE_URL"}},
			&cli.BoolFlag{Name: "force", Usage: "render even when validation fails"},
		},
		Action: func(c *cli.Context) error {
			if c.NArg() != 1 {
				return cli.Exit("render needs exactly one FORM.json", 2)
			}
			raw, err := os.ReadFile(c.Args().First())
			if err != nil {
				return err
			}
			var f builder.Form
			if err := json.Unmarshal(raw, &f); err != nil {
				return fmt.Errorf("parse form: %w", err)
			}
			if f.Kind == "" {
				f.Kind = models.Invoice
			}
			s := builder.Build(f, c.Int("seq"), time.Now())

			if problems := validation.Validate(s, models.DefaultsFor(s.Kind)); len(problems) > 0 && !c.Bool("force") {
				return cli.Exit("cannot render:\n- "+strings.Join(problems, "\n- "), 1)
			}

			logger := logging.New(c.String("log-level"), "pretty")
			ctx, cancel := context.WithTimeout(c.Context, 10*time.Second)
			defer cancel()
			logo, err := render.LoadLogo(ctx, c.String("logo"), nil)
			if err != nil {
				logger.Warn("logo unavailable", "error", err)
			}
			r := render.NewRenderer(logo, render.Branding{UPIID: c.String("upi"), WebsiteURL: c.String("website")}, logger)
			pdf, err := r.Render(s)
			if err != nil {
				return err
			}

			out := c.String("out")
			if out == "" {
				out = s.FileName()
			}
			if err := os.WriteFile(out, pdf, 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "%s %s -> %s (%d bytes)\n", s.Kind.Label(), s.Number, out, len(pdf))
			return nil
		},
	}
}

func wordsCommand() *cli.Command {
	return &cli.Command{
		Name:      "words",
		Usage:     "spell an amount in Indian rupee words",
		ArgsUsage: "AMOUNT",
		Action: func(c *cli.Context) error {
			amount, err := decimal.NewFromString(c.Args().First())
			if err != nil {
				return cli.Exit(fmt.Sprintf("invalid amount %q", c.Args().First()), 2)
			}
			fmt.Fprintln(c.App.Writer, utils.FormatRupeeSymbol(amount))
			fmt.Fprintln(c.App.Writer, utils.NumberToCurrencyWords(amount))
			return nil
		},
	}
}

func filenameCommand() *cli.Command {
	return &cli.Command{
		Name:  "filename",
		Usage: "build or parse export file names",
		Subcommands: []*cli.Command{
			{
				Name: "build",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Value: string(models.Invoice)},
					&cli.TimestampFlag{Name: "date", Layout: time.DateOnly, Required: true},
					&cli.IntFlag{Name: "seq", Value: 1},
					&cli.StringFlag{Name: "phone"},
				},
				Action: func(c *cli.Context) error {
					kind, err := models.ParseKind(c.String("kind"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}
					fmt.Fprintln(c.App.Writer, models.FileName(kind, *c.Timestamp("date"), c.Int("seq"), c.String("phone")))
					return nil
				},
			},
			{
				Name:      "parse",
				ArgsUsage: "NAME",
				Action: func(c *cli.Context) error {
					info, err := models.ParseFileName(c.Args().First())
					if err != nil {
						return cli.Exit(err.Error(), 1)
					}
					fmt.Fprintf(c.App.Writer, "kind=%s date=%s seq=%d phone=%s\n",
						info.Kind, info.Date.Format(time.DateOnly), info.Sequence, info.Phone)
					return nil
				},
			},
		},
	}
}

// nextCommand resolves the next sequence from a local folder of exports,
// the same way the server resolves it from the drive.
func nextCommand() *cli.Command {
	return &cli.Command{
		Name:      "next",
		Usage:     "print the next sequence for the PDFs in a directory",
		ArgsUsage: "DIR",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "kind", Value: string(models.Invoice)},
		},
		Action: func(c *cli.Context) error {
			kind, err := models.ParseKind(c.String("kind"))
			if err != nil {
				return cli.Exit(err.Error(), 2)
			}
			entries, err := os.ReadDir(c.Args().First())
			if err != nil {
				return err
			}
			var names []string
			for _, e := range entries {
				if !e.IsDir() && strings.HasPrefix(e.Name(), kind.Prefix()+"_") {
					names = append(names, e.Name())
				}
			}
			fmt.Fprintln(c.App.Writer, numbering.MaxSequence(kind, names)+1)
			return nil
		},
	}
}
