// Package driver runs the minimization pipeline for single inputs and for
// batches of input files.
package driver

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/pborges/qmin/internal/equiv"
	"github.com/pborges/qmin/internal/input"
	"github.com/pborges/qmin/internal/metrics"
	"github.com/pborges/qmin/internal/qm"
	"github.com/pborges/qmin/internal/report"
	"github.com/pborges/qmin/internal/verilog"
)

type Options struct {
	// Jobs bounds concurrent inputs in RunBatch; zero means GOMAXPROCS.
	Jobs int
	// OutDir receives batch outputs; empty writes next to each input.
	OutDir string

	Verilog      verilog.Config
	WriteVerilog bool
	Report       report.Format
	WriteReport  bool

	// Verify proves every cheapest cover equivalent to its function and
	// checks its size against a SAT-derived minimum.
	Verify     bool
	PetrickCap int

	Metrics *metrics.Recorder
	Logger  logrus.FieldLogger
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Job is one function to minimize. When Function is nil the function is
// read from the file Name.
type Job struct {
	Name     string
	Function *qm.Function

	// Output files; empty paths are not written.
	VerilogPath string
	ReportPath  string
}

type Outcome struct {
	Job      Job
	Result   *qm.Result
	Verilog  string
	Report   []byte
	Duration time.Duration
	Err      error
}

func (o Outcome) Failed() bool { return o.Err != nil }

// Run processes a single job. Failures are returned in the outcome.
func Run(ctx context.Context, job Job, opts Options) Outcome {
	out := Outcome{Job: job}
	log := opts.logger().WithField("input", job.Name)
	if err := ctx.Err(); err != nil {
		out.Err = err
		return out
	}

	var fn qm.Function
	if job.Function != nil {
		fn = *job.Function
	} else {
		parsed, err := input.ParseFile(job.Name)
		if err != nil {
			out.Err = err
			opts.Metrics.Observe(nil, err, 0)
			return out
		}
		fn = parsed
	}

	start := time.Now()
	res, err := qm.Minimize(fn, qm.Config{PetrickCap: opts.PetrickCap, Logger: log})
	out.Duration = time.Since(start)
	opts.Metrics.Observe(res, err, out.Duration)
	if err != nil {
		out.Err = err
		log.WithError(err).Warn("minimization failed")
		return out
	}
	out.Result = res
	log.WithFields(logrus.Fields{
		"width":  res.Function.Width,
		"primes": len(res.Primes),
		"covers": len(res.Covers),
		"cost":   res.Cheapest[0].Cost,
	}).Info("minimized")

	if opts.Verify {
		if err := verify(res, log); err != nil {
			out.Err = err
			return out
		}
	}

	cfg := opts.Verilog
	if cfg.ModuleName == "" {
		cfg.ModuleName = moduleName(job.Name)
	}
	out.Verilog, err = verilog.MakeVerilog(cfg, verilog.DesignOf(res))
	if err != nil {
		out.Err = errors.Wrap(err, "verilog")
		return out
	}
	var buf bytes.Buffer
	if err := report.Write(&buf, opts.Report, report.NewDocument(job.Name, res)); err != nil {
		out.Err = errors.Wrap(err, "report")
		return out
	}
	out.Report = buf.Bytes()

	if err := writeOutput(job.VerilogPath, []byte(out.Verilog)); err != nil {
		out.Err = err
		return out
	}
	if err := writeOutput(job.ReportPath, out.Report); err != nil {
		out.Err = err
		return out
	}
	return out
}

func verify(res *qm.Result, log logrus.FieldLogger) error {
	if res.Function.Width > equiv.MaxVerifyWidth {
		log.Warnf("skipping verification of %d-variable function", res.Function.Width)
		return nil
	}
	for _, c := range res.Cheapest {
		if err := equiv.Check(res.Function, res.Primes, c.Cover); err != nil {
			return errors.Wrapf(err, "cover %v", c.Cover)
		}
	}
	want, err := equiv.MinimumCoverSize(res.Function, res.Primes)
	if err != nil {
		return err
	}
	if got := len(res.Covers[0]); got != want {
		return errors.Errorf("cover uses %d primes, a cover of %d exists", got, want)
	}
	log.Debug("verified")
	return nil
}

func writeOutput(path string, data []byte) error {
	if path == "" {
		return nil
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func moduleName(name string) string {
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "minimized_module"
	}
	return verilog.EscapeIdentifier(base)
}

// JobFor derives a job's output paths from the input path and options.
func JobFor(path string, opts Options) Job {
	dir := filepath.Dir(path)
	if opts.OutDir != "" {
		dir = opts.OutDir
	}
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	job := Job{Name: path}
	if opts.WriteVerilog {
		job.VerilogPath = filepath.Join(dir, base+".v")
	}
	if opts.WriteReport {
		job.ReportPath = filepath.Join(dir, base+opts.Report.Ext())
	}
	return job
}

// BatchError lists the inputs of a batch that failed.
type BatchError struct {
	Total    int
	Failures []Outcome
}

func (e *BatchError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = fmt.Sprintf("%s: %v", f.Job.Name, f.Err)
	}
	return fmt.Sprintf("%d of %d inputs failed: %s", len(e.Failures), e.Total, strings.Join(parts, "; "))
}

// RunBatch minimizes every path concurrently. Outcomes are returned in input
// order; one failing input does not stop the others.
func RunBatch(ctx context.Context, paths []string, opts Options) ([]Outcome, error) {
	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	outcomes := make([]Outcome, len(paths))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			outcomes[i] = Run(gctx, JobFor(path, opts), opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}

	var failed []Outcome
	for _, o := range outcomes {
		if o.Failed() {
			failed = append(failed, o)
		}
	}
	opts.logger().WithFields(logrus.Fields{
		"inputs": len(paths),
		"failed": len(failed),
	}).Info("batch finished")
	if len(failed) > 0 {
		return outcomes, &BatchError{Total: len(paths), Failures: failed}
	}
	return outcomes, nil
}
