package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"

	"StealthRadar/internal/model"
)

var (
	scanJSON   bool
	scanPretty bool
)

var scanCMD = &cobra.Command{
	Use:   "scan",
	Short: "Run one scan and print the ranking",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.log.Sync() //nolint:errcheck

		res, err := a.scanner.Run(cmd.Context())
		if err != nil {
			return err
		}
		if scanJSON {
			return writeJSON(cmd.OutOrStdout(), res, scanPretty)
		}
		writeTable(cmd.OutOrStdout(), res)
		return nil
	},
}

func init() {
	scanCMD.Flags().BoolVar(&scanJSON, "json", false, "print the result as JSON")
	scanCMD.Flags().BoolVar(&scanPretty, "pretty", false, "indent and colorize JSON output")
}

func writeJSON(w io.Writer, res *model.ScanResult, indent bool) error {
	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if indent {
		data = pretty.Pretty(data)
		if f, ok := w.(*os.File); ok && f == os.Stdout {
			data = pretty.Color(data, nil)
		}
	} else {
		data = append(data, '\n')
	}
	_, err = w.Write(data)
	return err
}

func writeTable(w io.Writer, res *model.ScanResult) {
	fmt.Fprintf(w, "Sessions analyzed: %d", res.DaysAnalyzed)
	if n := len(res.SessionDates); n > 0 {
		fmt.Fprintf(w, " (%s .. %s)", res.SessionDates[0], res.SessionDates[n-1])
	}
	fmt.Fprintln(w)
	if len(res.TopStocks) == 0 {
		fmt.Fprintln(w, "No symbol met the session coverage floor.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tSYMBOL\tCMF\tSCORE\tCHG%\tVALUE\tVOLUME\tDAYS\t")
	for i, r := range res.TopStocks {
		fmt.Fprintf(tw, "%d\t%s\t%.3f\t%.3f\t%+.2f\t%s\t%s\t%d\t\n",
			i+1, r.Symbol, r.CMF, r.Score, r.PriceChange5dPercent,
			humanize.Comma(r.TotalTradedValue.Round(0).IntPart()),
			humanize.Comma(int64(r.TotalVolume)),
			r.Days)
	}
	tw.Flush()
}
