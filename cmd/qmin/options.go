package main

import (
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"

	"github.com/pborges/qmin/internal/driver"
	"github.com/pborges/qmin/internal/metrics"
	"github.com/pborges/qmin/internal/qm"
	"github.com/pborges/qmin/internal/report"
	"github.com/pborges/qmin/internal/verilog"
)

// renderOptions are the flags shared by minimize and batch.
type renderOptions struct {
	style       string
	format      string
	module      string
	output      string
	inputPrefix string
	inputs      []string
	petrickCap  int
	verify      bool
	metricsFile string
}

func (o *renderOptions) addFlags(fs *pflag.FlagSet) {
	var styles []string
	for _, s := range verilog.Styles() {
		styles = append(styles, s.String())
	}
	fs.StringVar(&o.style, "style", verilog.StylePrimitives.String(), "verilog style: "+strings.Join(styles, ", "))
	fs.StringVar(&o.format, "format", report.FormatText.String(), "report format: text, json, yaml")
	fs.StringVar(&o.module, "module", "", "verilog module name (default: input file name)")
	fs.StringVar(&o.output, "output", "f", "verilog output port name")
	fs.StringVar(&o.inputPrefix, "input-prefix", "x", "prefix for generated input port names")
	fs.StringSliceVar(&o.inputs, "inputs", nil, "explicit input port names, variable 0 first")
	fs.IntVar(&o.petrickCap, "petrick-cap", qm.DefaultPetrickCap, "maximum products kept during Petrick expansion")
	fs.BoolVar(&o.verify, "verify", false, "prove covers equivalent and minimal with a SAT solver")
	fs.StringVar(&o.metricsFile, "metrics-file", "", "write prometheus metrics to this textfile")
}

func (o *renderOptions) driverOptions() (driver.Options, error) {
	style, err := verilog.ParseStyle(o.style)
	if err != nil {
		return driver.Options{}, err
	}
	format, err := report.ParseFormat(o.format)
	if err != nil {
		return driver.Options{}, err
	}
	opts := driver.Options{
		Verilog: verilog.Config{
			ModuleName:  o.module,
			OutputName:  o.output,
			InputPrefix: o.inputPrefix,
			InputNames:  o.inputs,
			Style:       style,
		},
		Report:     format,
		Verify:     o.verify,
		PetrickCap: o.petrickCap,
		Logger:     log.StandardLogger(),
	}
	if o.metricsFile != "" {
		opts.Metrics = metrics.NewRecorder()
	}
	return opts, nil
}

func (o *renderOptions) flushMetrics(opts driver.Options) {
	if opts.Metrics == nil {
		return
	}
	if err := opts.Metrics.WriteTextfile(o.metricsFile); err != nil {
		log.WithError(err).Warn("could not write metrics")
	}
}
