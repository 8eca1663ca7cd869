package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"mortgage-agent/domain"
	"mortgage-agent/service"
)

func newCalcCmd() *cobra.Command {
	var input domain.LoanInput

	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Compute the monthly payment for a fixed-rate loan",
		Example: `  mortgage-agent calc --amount 300000 --down 60000 --rate 7.12 --years 30`,
		RunE: func(cmd *cobra.Command, args []string) error {
			printLoan(cmd.OutOrStdout(), input, service.Amortize(input))
			return nil
		},
	}

	cmd.Flags().Float64Var(&input.LoanAmount, "amount", 0, "home price / loan amount")
	cmd.Flags().Float64Var(&input.DownPayment, "down", 0, "down payment")
	cmd.Flags().Float64Var(&input.AnnualRatePercent, "rate", 0, "annual interest rate in percent")
	cmd.Flags().IntVar(&input.TermYears, "years", 30, "loan term in years")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("rate")

	return cmd
}

func printLoan(w io.Writer, input domain.LoanInput, result domain.LoanResult) {
	display := result.Display()
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Principal\t%s\n", domain.Cents(input.Principal()))
	fmt.Fprintf(tw, "Monthly payment\t%s\n", display.MonthlyPayment)
	fmt.Fprintf(tw, "Total payment\t%s\n", display.TotalPayment)
	fmt.Fprintf(tw, "Total interest\t%s\n", display.TotalInterest)
	tw.Flush()
}

func newRatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rates",
		Short: "Print current mortgage rates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			resp := service.NewRateService(cfg.Rates, logger).FetchRates(cmd.Context())
			printRates(cmd.OutOrStdout(), resp)
			return nil
		},
	}
}

var sourceColors = map[domain.RateSource]*color.Color{
	domain.RateSourceProvider:        color.New(color.FgGreen),
	domain.RateSourceFallbackDefault: color.New(color.FgYellow),
	domain.RateSourceErrorFallback:   color.New(color.FgRed),
}

func printRates(w io.Writer, resp domain.RatesResponse) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, quote := range resp.Rates {
		fmt.Fprintf(tw, "%s\t%.2f%%\n", quote.LoanType, quote.Rate)
	}
	tw.Flush()

	source := string(resp.Source)
	if c, ok := sourceColors[resp.Source]; ok {
		source = c.Sprint(source)
	}
	fmt.Fprintf(w, "source: %s (retrieved %s)\n", source, resp.RetrievedAt.Format("2006-01-02 15:04:05 MST"))
}
