package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"decprobe/internal/codec"
)

// limitsCmd prints the safe-digit table
var limitsCmd = &cobra.Command{
	Use:   "limits",
	Short: "Show max fractional digits per integer range within exact float64",
	Long: `For each power-of-ten integer bound from 10^2 to 10^15, prints the
maximum number of fractional digits whose full value space still fits
inside float64's exact-integer range (2^53 - 1). Picking more digits
than listed guarantees round-trip precision loss somewhere in the range.`,
	RunE: runLimits,
}

func runLimits(cmd *cobra.Command, args []string) error {
	fmt.Printf("%-18s %s\n", "max integer", "safe fractional digits")
	for exp := 2; exp <= 15; exp++ {
		digits := codec.SafeDigits(codec.Pow10(exp))
		fmt.Printf("%-18s %d\n", fmt.Sprintf("10^%d", exp), digits)
	}
	return nil
}
