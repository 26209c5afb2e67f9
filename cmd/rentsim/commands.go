package main

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rentsim/rental-calculator/internal/calculation"
	"github.com/rentsim/rental-calculator/internal/config"
	"github.com/rentsim/rental-calculator/internal/domain"
	"github.com/rentsim/rental-calculator/internal/output"
	"github.com/rentsim/rental-calculator/internal/server"
)

// options holds the persistent flags shared by every command.
type options struct {
	configFile string
	format     string
	outputFile string
	verbose    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "rentsim",
		Short:         "French rental investment tax and amortization simulator",
		Long:          "rentsim compares micro-foncier, reel-foncier, micro-BIC and reel-BIC over the holding period of rental properties, including loan schedules, capital-gain tax, IRR and SCI corporate tax.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultConfig := os.Getenv("RENTSIM_CONFIG")
	if defaultConfig == "" {
		defaultConfig = "portfolio.yaml"
	}
	root.PersistentFlags().StringVarP(&opts.configFile, "config", "c", defaultConfig, "portfolio file (env RENTSIM_CONFIG)")
	root.PersistentFlags().StringVarP(&opts.format, "format", "f", "console", "output format (console, json, csv, ...)")
	root.PersistentFlags().StringVarP(&opts.outputFile, "output", "o", "", "write output to this file instead of stdout")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log calculation details to stderr")

	root.AddCommand(
		newAnalyzeCmd(opts),
		newScheduleCmd(opts),
		newSCICmd(opts),
		newExampleCmd(opts),
		newServeCmd(opts),
	)
	return root
}

func (o *options) logger(cmd *cobra.Command) calculation.Logger {
	if !o.verbose {
		return calculation.NopLogger{}
	}
	return calculation.NewStdLogger(cmd.ErrOrStderr(), true)
}

func (o *options) loadPortfolio() (*domain.Portfolio, error) {
	portfolio, err := config.NewInputParser().LoadFromFile(o.configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load portfolio: %w", err)
	}
	return portfolio, nil
}

func (o *options) engine(cmd *cobra.Command, portfolio *domain.Portfolio) *calculation.Engine {
	engine := calculation.NewEngineWithRules(portfolio.TaxRules)
	engine.SetLogger(o.logger(cmd))
	return engine
}

// withOutput runs write against the --output file, or stdout when none is set.
func (o *options) withOutput(cmd *cobra.Command, write func(w io.Writer) error) error {
	if o.outputFile == "" {
		return write(cmd.OutOrStdout())
	}
	f, err := os.Create(o.outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close output file: %w", err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", o.outputFile)
	return nil
}

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze every investment and SCI of a portfolio",
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := opts.loadPortfolio()
			if err != nil {
				return err
			}
			report, err := opts.engine(cmd, portfolio).RunPortfolio(cmd.Context(), portfolio)
			if err != nil {
				return err
			}
			return opts.withOutput(cmd, func(w io.Writer) error {
				return output.WriteReport(w, report, opts.format)
			})
		},
	}
}

func newScheduleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "schedule [investment-id]",
		Short: "Print the monthly loan schedule of one or all investments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := opts.loadPortfolio()
			if err != nil {
				return err
			}
			investments := portfolio.Investments
			if len(args) == 1 {
				inv, ok := portfolio.InvestmentByID(args[0])
				if !ok {
					return fmt.Errorf("investment %s not found", args[0])
				}
				investments = []domain.Investment{*inv}
			}

			engine := opts.engine(cmd, portfolio)
			schedules := make(map[string]domain.AmortizationSchedule, len(investments))
			for _, inv := range investments {
				schedules[inv.ID] = engine.Schedule(inv)
			}

			return opts.withOutput(cmd, func(w io.Writer) error {
				if output.NormalizeFormatName(opts.format) == "json" {
					data, err := json.MarshalIndent(schedules, "", "  ")
					if err != nil {
						return fmt.Errorf("failed to marshal schedules: %w", err)
					}
					_, err = w.Write(append(data, '\n'))
					return err
				}
				for i, inv := range investments {
					data, err := output.FormatScheduleCSV(inv.ID, schedules[inv.ID])
					if err != nil {
						return err
					}
					// one header for the whole file
					if i > 0 {
						data = dropFirstLine(data)
					}
					if _, err := w.Write(data); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func dropFirstLine(data []byte) []byte {
	for i, b := range data {
		if b == '\n' {
			return data[i+1:]
		}
	}
	return nil
}

func newSCICmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "sci",
		Short: "Compute corporate tax and per-property allocation of each SCI",
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio, err := opts.loadPortfolio()
			if err != nil {
				return err
			}
			engine := opts.engine(cmd, portfolio)
			if len(portfolio.SCIs) == 0 {
				engine.Logger.Warnf("portfolio %s declares no SCI", opts.configFile)
			}
			report := &domain.PortfolioReport{TaxRules: engine.Rules}
			for _, sci := range portfolio.SCIs {
				report.SCIs = append(report.SCIs, engine.AnalyzeSCI(portfolio, sci))
			}

			format := output.NormalizeFormatName(opts.format)
			switch format {
			case "csv", "detailed-csv":
				format = "sci-csv"
			case "console-lite":
				format = "console"
			}
			return opts.withOutput(cmd, func(w io.Writer) error {
				return output.WriteReport(w, report, format)
			})
		},
	}
}

func newExampleCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Write an example portfolio file",
		RunE: func(cmd *cobra.Command, args []string) error {
			portfolio := config.NewInputParser().CreateExamplePortfolio()
			if opts.outputFile != "" {
				if err := output.SavePortfolio(portfolio, opts.outputFile); err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "Example portfolio written to %s\n", opts.outputFile)
				return nil
			}
			data, err := yaml.Marshal(portfolio)
			if err != nil {
				return fmt.Errorf("failed to marshal example portfolio: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newServeCmd(opts *options) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the calculation engine over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				addr = ":" + port
			}
			logger := calculation.Logger(calculation.NewStdLogger(cmd.ErrOrStderr(), opts.verbose))
			if err := server.New(logger).ListenAndServe(addr); err != nil {
				return fmt.Errorf("server failed: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :$PORT or :8080)")
	return cmd
}
