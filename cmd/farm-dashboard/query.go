package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/i474232898/farm-dashboard/internal/market"
	"github.com/i474232898/farm-dashboard/internal/weather"
)

var weatherCountry string

var weatherCmd = &cobra.Command{
	Use:   "weather <city>",
	Short: "Show current weather for a city",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}

		loc := weather.Location{Country: weatherCountry}
		if len(args) == 1 {
			loc.City = args[0]
		}

		// Failures are reported as a warning line; the command itself succeeds.
		snapshot, report, err := svc.Weather.Report(cmd.Context(), loc)
		if flagJSON {
			if err != nil {
				return printJSON(cmd.OutOrStdout(), map[string]string{"warning": report})
			}
			return printJSON(cmd.OutOrStdout(), snapshot)
		}
		fmt.Fprintln(cmd.OutOrStdout(), report)
		return nil
	},
}

var pricesCmd = &cobra.Command{
	Use:   "prices [crop]",
	Short: "Show sample market prices",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		filter := ""
		if len(args) == 1 {
			filter = args[0]
		}
		rows := market.NewSampleTable().Prices(filter)

		out := cmd.OutOrStdout()
		if flagJSON {
			return printJSON(out, map[string]any{"prices": rows, "chart": market.Chart(rows)})
		}

		table := make([][]string, 0, len(rows))
		for _, p := range rows {
			table = append(table, []string{
				p.Crop,
				strconv.FormatFloat(p.PricePerQtl, 'f', -1, 64),
				p.Market,
				bar(p.PricePerQtl, maxPrice(rows)),
			})
		}
		return printTable(out, []string{"CROP", "PRICE PER QTL", "MARKET", ""}, table)
	},
}

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask the farming assistant",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := buildServices(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		answer, err := svc.Assistant.Ask(cmd.Context(), strings.Join(args, " "))
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), answer)
		}
		fmt.Fprintln(cmd.OutOrStdout(), answer.Text)
		return nil
	},
}

var predictCrop string

var predictCmd = &cobra.Command{
	Use:   "predict <area>",
	Short: "Predict expected yield for an area from recorded crops",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		area, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid area %q: %w", args[0], err)
		}
		svc, err := buildServices(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		p, err := svc.Predictor.Predict(predictCrop, area)
		if err != nil {
			return err
		}
		if flagJSON {
			return printJSON(cmd.OutOrStdout(), p)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Expected yield: %.1f qt/ha (%.1f qt over %.2f ha, fitted on %d records)\n",
			p.ExpectedYield, p.Production, p.Area, p.Model.Samples)
		return nil
	},
}

func init() {
	weatherCmd.Flags().StringVar(&weatherCountry, "country", "", "country code to disambiguate the city")
	predictCmd.Flags().StringVar(&predictCrop, "crop", "", "fit only records of this crop")
}

func maxPrice(rows []market.Price) float64 {
	m := 0.0
	for _, p := range rows {
		m = max(m, p.PricePerQtl)
	}
	return m
}

// bar renders v as a text bar scaled so that limit is 30 characters wide.
func bar(v, limit float64) string {
	if limit <= 0 {
		return ""
	}
	return strings.Repeat("#", int(v/limit*30+0.5))
}
