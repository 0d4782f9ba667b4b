package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/itchyny/gojq"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/exp/slices"

	"github.com/adobaai/ppcp"
)

func validateCommand() *cli.Command {
	return &cli.Command{
		Name:      "validate",
		Usage:     "Check that an order can be created",
		ArgsUsage: "<order.json>",
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("missing order file")
			}
			o, err := readJSON[ppcp.Order](path)
			if err != nil {
				return err
			}
			log.Debug().Str("file", path).Int("purchase_units", len(o.PurchaseUnits)).Msg("validating order")
			if err = ppcp.Validate(o); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			w := c.App.Writer
			fmt.Fprintln(w, "ok")
			sortedRangeMap(orderTotals(o), func(currency string, total decimal.Decimal) {
				fmt.Fprintf(w, "%s %s\n", currency, total.StringFixed(max(0, -total.Exponent())))
			})
			return nil
		},
	}
}

func resolveCommand() *cli.Command {
	return &cli.Command{
		Name:      "resolve",
		Usage:     "Print the value a patch path points to",
		ArgsUsage: "<path>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "order",
				Usage:    "Order JSON file",
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			path := c.Args().First()
			if path == "" {
				return fmt.Errorf("missing path")
			}
			o, err := readJSON[ppcp.Order](c.String("order"))
			if err != nil {
				return err
			}
			ref, err := ppcp.Resolve(o, path)
			if err != nil {
				return fmt.Errorf("resolve: %w", err)
			}
			fmt.Fprintln(c.App.Writer, ref.Pointer())
			return writeJSON(c.App.Writer, ref.Value)
		},
	}
}

func patchCommand() *cli.Command {
	return &cli.Command{
		Name:  "patch",
		Usage: "Validate an update patch and print the patched order",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "order",
				Usage:    "Order JSON file",
				Required: true,
			},
			&cli.StringFlag{
				Name:     "patch",
				Usage:    "Patch JSON file, an array of operations",
				Required: true,
			},
			&cli.StringFlag{
				Name:    "query",
				Aliases: []string{"q"},
				Usage:   "jq query run over the patched order, e.g. '.purchase_units[0].amount'",
			},
		},
		Action: func(c *cli.Context) error {
			o, err := readJSON[ppcp.Order](c.String("order"))
			if err != nil {
				return err
			}
			p, err := readJSON[ppcp.Patch](c.String("patch"))
			if err != nil {
				return err
			}
			log.Debug().Str("file", c.String("patch")).Int("operations", len(*p)).Msg("applying patch")

			if err = ppcp.ValidatePatch(nil, *p); err != nil {
				return fmt.Errorf("patch: %w", err)
			}
			res, err := ppcp.ApplyPatch(o, *p)
			if err != nil {
				return fmt.Errorf("patch: %w", err)
			}
			if err = ppcp.Validate(res); err != nil {
				log.Warn().Err(err).Msg("patched order can not be created")
			}

			if q := c.String("query"); q != "" {
				return runQuery(c.App.Writer, q, res)
			}
			return writeJSON(c.App.Writer, res)
		},
	}
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "Fetch an access token with the configured credentials",
		Action: func(c *cli.Context) error {
			base := c.String("base")
			log.Debug().Str("base", base).Msg("requesting access token")
			client := ppcp.NewClient(base, c.String("client-id"), c.String("client-secret"))
			token, err := client.Auth(c.Context)
			if err != nil {
				return fmt.Errorf("auth: %w", err)
			}
			return writeJSON(c.App.Writer, token)
		},
	}
}

// orderTotals sums the purchase unit amounts per currency.
func orderTotals(o *ppcp.Order) map[string]decimal.Decimal {
	res := map[string]decimal.Decimal{}
	for _, pu := range o.PurchaseUnits {
		// Values are checked by Validate.
		v := decimal.RequireFromString(pu.Amount.Value)
		res[pu.Amount.CurrencyCode] = res[pu.Amount.CurrencyCode].Add(v)
	}
	return res
}

func sortedRangeMap[K ~string, V any](m map[K]V, f func(k K, v V)) {
	var keys []K
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, key := range keys {
		f(key, m[key])
	}
}

func runQuery(w io.Writer, q string, v any) error {
	query, err := gojq.Parse(q)
	if err != nil {
		return fmt.Errorf("parse query %q: %w", q, err)
	}
	code, err := gojq.Compile(query)
	if err != nil {
		return fmt.Errorf("compile query %q: %w", q, err)
	}

	// gojq only accepts plain JSON values.
	bs, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	var input any
	if err = json.Unmarshal(bs, &input); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}

	iter := code.Run(input)
	for {
		it, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, ok := it.(error); ok {
			return fmt.Errorf("query %q: %w", q, err)
		}
		if err = writeJSON(w, it); err != nil {
			return err
		}
	}
}

func readJSON[T any](path string) (res *T, err error) {
	bs, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	res = new(T)
	if err = json.Unmarshal(bs, res); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
