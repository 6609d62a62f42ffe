package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"order-analytics/config"
	"order-analytics/internal/app"
	"order-analytics/internal/broker"
	"order-analytics/internal/models"
	"order-analytics/internal/service"
	"order-analytics/internal/util"
	"order-analytics/internal/worker"

	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// cli holds flags shared by every subcommand
type cli struct {
	out       io.Writer
	cfg       *config.Config
	dataDir   string
	source    string
	reference string
	dense     bool
	start     string
	end       string
}

func newRootCmd(out io.Writer) *cobra.Command {
	c := &cli{out: out}

	root := &cobra.Command{
		Use:           "report",
		Short:         "Batch reports over the order dataset",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.configure()
		},
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&c.dataDir, "data-dir", "", "directory holding the CSV files (overrides DATA_DIR)")
	flags.StringVar(&c.source, "source", "", "csv or postgres (overrides DATA_SOURCE)")
	flags.StringVar(&c.reference, "reference", "", "RFM reference date YYYY-MM-DD (overrides RFM_REFERENCE_DATE)")
	flags.BoolVar(&c.dense, "dense", false, "emit days without orders in the daily series")

	root.AddCommand(
		c.dailyCmd(),
		c.rfmCmd(),
		c.breakdownsCmd(),
		c.exportCmd(),
		c.publishCmd(),
		c.watchCmd(),
	)
	return root
}

func (c *cli) configure() error {
	c.cfg = config.Load()
	if c.dataDir != "" {
		c.cfg.Data.Dir = c.dataDir
	}
	if c.source != "" {
		c.cfg.Data.Source = c.source
	}
	if c.dense {
		c.cfg.Analytics.Dense = true
	}
	if c.reference != "" {
		ref, err := time.Parse(dateLayout, c.reference)
		if err != nil {
			return fmt.Errorf("invalid --reference: %w", err)
		}
		c.cfg.Analytics.ReferenceDate = &ref
	}

	if err := util.InitLogger(c.cfg.Server.Env, c.cfg.Server.LogLevel); err != nil {
		log.Printf("Failed to initialize logger: %v", err)
	}
	return nil
}

// withService loads the dataset and runs fn against a report service
func (c *cli) withService(ctx context.Context, fn func(*service.ReportService) error) error {
	defer util.SyncLogger()

	deps, err := app.Open(c.cfg)
	if err != nil {
		return err
	}
	defer deps.Close()

	ds, err := app.LoadDataset(ctx, c.cfg, deps)
	if err != nil {
		return err
	}

	return fn(service.NewReportService(ds, deps.Cache(), deps.Publisher(), app.Settings(c.cfg)))
}

func (c *cli) rangeFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.start, "start", "", "first day YYYY-MM-DD (default: first day with orders)")
	cmd.Flags().StringVar(&c.end, "end", "", "last day YYYY-MM-DD (default: last day with orders)")
}

func (c *cli) bounds() (start, end *time.Time, err error) {
	parse := func(name, v string) (*time.Time, error) {
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return nil, fmt.Errorf("invalid --%s: %w", name, err)
		}
		return &t, nil
	}
	if start, err = parse("start", c.start); err != nil {
		return nil, nil, err
	}
	if end, err = parse("end", c.end); err != nil {
		return nil, nil, err
	}
	return start, end, nil
}

func (c *cli) print(v interface{}) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) dailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Daily order volume within a date range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := c.bounds()
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *service.ReportService) error {
				rep, err := svc.DailyReport(cmd.Context(), start, end)
				if err != nil {
					return err
				}
				return c.print(rep)
			})
		},
	}
	c.rangeFlags(cmd)
	return cmd
}

func (c *cli) rfmCmd() *cobra.Command {
	var summary bool
	cmd := &cobra.Command{
		Use:   "rfm",
		Short: "RFM scores and segments per customer",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd.Context(), func(svc *service.ReportService) error {
				if summary {
					res, err := svc.RFMSummary(cmd.Context())
					if err != nil {
						return err
					}
					return c.print(res)
				}
				res, err := svc.RFM(cmd.Context())
				if err != nil {
					return err
				}
				return c.print(res)
			})
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print segment counts and score distribution only")
	return cmd
}

func (c *cli) breakdownsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "breakdowns",
		Short: "Payment, status, product and zip code breakdowns",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd.Context(), func(svc *service.ReportService) error {
				res, err := svc.Breakdowns(cmd.Context())
				if err != nil {
					return err
				}
				return c.print(res)
			})
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every report to an XLSX workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			start, end, err := c.bounds()
			if err != nil {
				return err
			}
			return c.withService(cmd.Context(), func(svc *service.ReportService) error {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				if err := svc.Export(cmd.Context(), f, start, end); err != nil {
					f.Close()
					os.Remove(output)
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "wrote %s\n", output)
				return nil
			})
		},
	}
	c.rangeFlags(cmd)
	cmd.Flags().StringVarP(&output, "output", "o", "order-analytics.xlsx", "workbook path")
	return cmd
}

func (c *cli) publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish the current segment counts to Kafka",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(c.cfg.Kafka.Brokers) == 0 {
				return fmt.Errorf("KAFKA_BROKERS is not set")
			}
			return c.withService(cmd.Context(), func(svc *service.ReportService) error {
				event, err := svc.PublishSegments(cmd.Context())
				if err != nil {
					return err
				}
				return c.print(event)
			})
		},
	}
}

func (c *cli) watchCmd() *cobra.Command {
	var group string
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Print segment events as they are published",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(c.cfg.Kafka.Brokers) == 0 {
				return fmt.Errorf("KAFKA_BROKERS is not set")
			}
			defer util.SyncLogger()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			consumer := broker.NewConsumer(c.cfg.Kafka.Brokers, c.cfg.Kafka.TopicSegments, group)
			w := worker.NewSegmentWorker(consumer, func(_ context.Context, e *models.SegmentsComputedEvent) error {
				return c.print(e)
			})
			defer w.Stop()

			if err := w.Start(ctx); err != nil && ctx.Err() == nil {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&group, "group", "", "consumer group; empty follows the topic from the newest offset")
	return cmd
}
