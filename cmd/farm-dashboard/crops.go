package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/i474232898/farm-dashboard/internal/crops"
)

var cropsCmd = &cobra.Command{
	Use:   "crops",
	Short: "List or add crop records",
}

var cropsListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show every recorded crop",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := crops.NewService(crops.NewFileStore(cfg.CropStorePath, logger), nil)
		records := svc.List()

		out := cmd.OutOrStdout()
		if flagJSON {
			return printJSON(out, records)
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No crop records yet.")
			return nil
		}
		return printTable(out, []string{"NAME", "AREA (ha)", "YIELD (qt/ha)", "ADDED ON"}, cropRows(records))
	},
}

var (
	addArea  float64
	addYield float64
)

var cropsAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Record a new crop",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc := crops.NewService(crops.NewFileStore(cfg.CropStorePath, logger), nil)
		rec, _, err := svc.Add(crops.NewRecord{
			Name:          args[0],
			Area:          addArea,
			ExpectedYield: addYield,
		})
		if err != nil {
			return err
		}

		if flagJSON {
			return printJSON(cmd.OutOrStdout(), rec)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Crop saved!")
		return nil
	},
}

func init() {
	cropsAddCmd.Flags().Float64Var(&addArea, "area", 0, "planted area in hectares")
	cropsAddCmd.Flags().Float64Var(&addYield, "yield", 0, "expected yield in quintals per hectare")

	cropsCmd.AddCommand(cropsListCmd)
	cropsCmd.AddCommand(cropsAddCmd)
}

func cropRows(records []crops.Record) [][]string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		rows = append(rows, []string{
			r.Name,
			strconv.FormatFloat(r.Area, 'f', -1, 64),
			strconv.FormatFloat(r.ExpectedYield, 'f', -1, 64),
			r.AddedOn,
		})
	}
	return rows
}
