package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pborges/qmin/internal/driver"
)

type batchOptions struct {
	renderOptions
	jobs   int
	outDir string
}

func newBatchCmd() *cobra.Command {
	o := batchOptions{}
	cmd := &cobra.Command{
		Use:   "batch <file.qm>...",
		Short: "Minimize many functions concurrently",
		Long: `Minimize every input file, writing <name>.v and a report next to each
input or into --out-dir. A failing input does not stop the others; the
command fails if any input failed.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := o.driverOptions()
			if err != nil {
				return err
			}
			opts.Jobs = o.jobs
			opts.OutDir = o.outDir
			opts.WriteVerilog = true
			opts.WriteReport = true

			outcomes, err := driver.RunBatch(cmd.Context(), args, opts)
			o.flushMetrics(opts)
			for _, out := range outcomes {
				if out.Failed() {
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d primes\tcost %d\t%s\n",
					out.Job.Name, len(out.Result.Primes), out.Result.Cheapest[0].Cost, out.Job.VerilogPath)
			}
			return err
		},
	}
	o.addFlags(cmd.Flags())
	cmd.Flags().IntVarP(&o.jobs, "jobs", "j", 0, "inputs processed concurrently (default GOMAXPROCS)")
	cmd.Flags().StringVar(&o.outDir, "out-dir", "", "directory for outputs (default: next to each input)")
	return cmd
}
