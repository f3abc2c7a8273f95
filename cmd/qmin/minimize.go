package main

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/pborges/qmin/internal/driver"
	"github.com/pborges/qmin/internal/input"
)

type minimizeOptions struct {
	renderOptions
	outPath    string
	reportPath string

	width     int
	minterms  string
	dontCares string

	expr         string
	exprDontCare string
}

func newMinimizeCmd() *cobra.Command {
	o := minimizeOptions{}
	cmd := &cobra.Command{
		Use:   "minimize [file.qm]",
		Short: "Minimize one function and write its report and Verilog",
		Long: `Minimize one function read from a file or given inline with
--width/--minterms/--dontcares or as an expression with --expr. The report goes to stdout unless
--report-file is set; the Verilog module is written with -o.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(cmd, args)
		},
	}
	o.addFlags(cmd.Flags())
	cmd.Flags().StringVarP(&o.outPath, "out", "o", "", "write the verilog module to this file")
	cmd.Flags().StringVar(&o.reportPath, "report-file", "", "write the report to this file instead of stdout")
	cmd.Flags().IntVar(&o.width, "width", 0, "number of variables for an inline function")
	cmd.Flags().StringVar(&o.minterms, "minterms", "", "inline minterms, e.g. 1,3,6,7")
	cmd.Flags().StringVar(&o.dontCares, "dontcares", "", "inline don't-care terms")
	cmd.Flags().StringVar(&o.expr, "expr", "", "inline expression, e.g. \"!a & b # c\"; --inputs orders its variables")
	cmd.Flags().StringVar(&o.exprDontCare, "expr-dontcare", "", "expression for the don't-care set")
	return cmd
}

// job resolves the input and, for expressions, the variable names.
func (o *minimizeOptions) job(args []string) (driver.Job, []string, error) {
	inline := o.width != 0 || o.minterms != "" || o.dontCares != ""
	expression := o.expr != "" || o.exprDontCare != ""
	sources := 0
	for _, given := range []bool{inline, expression, len(args) > 0} {
		if given {
			sources++
		}
	}
	if sources > 1 {
		return driver.Job{}, nil, errors.New("give only one of an input file, --width/--minterms or --expr")
	}
	switch {
	case inline:
		minterms, err := input.ParseIntList(o.minterms)
		if err != nil {
			return driver.Job{}, nil, err
		}
		dontCares, err := input.ParseIntList(o.dontCares)
		if err != nil {
			return driver.Job{}, nil, err
		}
		fn, err := input.FromLists(o.width, minterms, dontCares)
		if err != nil {
			return driver.Job{}, nil, err
		}
		return driver.Job{Name: "inline", Function: &fn, VerilogPath: o.outPath, ReportPath: o.reportPath}, nil, nil
	case expression:
		fn, names, err := input.FromExpression(o.expr, o.exprDontCare, o.inputs)
		if err != nil {
			return driver.Job{}, nil, errors.Wrap(err, "--expr")
		}
		return driver.Job{Name: "expr", Function: &fn, VerilogPath: o.outPath, ReportPath: o.reportPath}, names, nil
	case len(args) == 1:
		return driver.Job{Name: args[0], VerilogPath: o.outPath, ReportPath: o.reportPath}, nil, nil
	}
	return driver.Job{}, nil, errors.New("an input file, --width/--minterms or --expr is required")
}

func (o *minimizeOptions) run(cmd *cobra.Command, args []string) error {
	job, names, err := o.job(args)
	if err != nil {
		return err
	}
	opts, err := o.driverOptions()
	if err != nil {
		return err
	}
	if names != nil {
		opts.Verilog.InputNames = names
	}
	if job.Function != nil && opts.Verilog.ModuleName == "" {
		opts.Verilog.ModuleName = "minimized_module"
	}
	out := driver.Run(cmd.Context(), job, opts)
	o.flushMetrics(opts)
	if out.Err != nil {
		return out.Err
	}
	if job.ReportPath == "" {
		if _, err := cmd.OutOrStdout().Write(out.Report); err != nil {
			return err
		}
	}
	if job.VerilogPath == "" {
		log.Info("no -o given, verilog not written")
	}
	return nil
}
