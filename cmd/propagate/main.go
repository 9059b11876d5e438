// Command propagate runs the N-body trajectory propagator end to end:
// it resolves the configured bodies against the built-in catalog (and
// an optional override meta-kernel file), integrates their motion with
// the chosen method, and writes the result to a NAIF SPK type-9 kernel.
//
// Argument parsing and defaulting here is a thin wiring layer over the
// propagate and spk packages; it carries no numerical logic of its own.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	kitlog "github.com/go-kit/kit/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/astrograv/propagate/bodies"
	"github.com/astrograv/propagate/ephemeris"
	"github.com/astrograv/propagate/propagate"
	"github.com/astrograv/propagate/spk"
)

var logger = kitlog.NewLogfmtLogger(kitlog.NewSyncWriter(os.Stdout))

func main() {
	if err := newRootCmd().Execute(); err != nil {
		logger.Log("level", "error", "subsys", "cmd", "message", err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()
	v.SetDefault("atol", 50000.0)
	v.SetDefault("fts", 1.0)
	v.SetDefault("method", "rk4")

	cmd := &cobra.Command{
		Use:   "propagate",
		Short: "Propagate an N-body trajectory and write a type-9 SPK kernel",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPropagate(cmd, v)
		},
	}

	flags := cmd.Flags()
	flags.String("mk", "", "override meta-kernel file (label,id,gm_km3s2 per line)")
	flags.String("t0", "", "start UTC, e.g. 2013-NOV-20 (required)")
	flags.String("tfinal", "", "end UTC (required)")
	flags.Float64("h", 0, "nominal step size in minutes (required)")
	flags.String("bodies", "", "comma-separated full-body names or IDs")
	flags.String("small-bodies", "", "comma-separated small-body names or IDs")
	flags.String("attractors", "", "comma-separated attractor names or IDs")
	flags.String("cb-id", "", "observing body; defaults to bodies[0]")
	flags.String("method", "rk4", "rk4 | dopri45 | euler")
	flags.Float64("atol", 50000.0, "absolute tolerance for dopri45")
	flags.Float64("fts", 1.0, "fraction of steps to save")
	flags.StringP("output-file", "o", "", "output SPK kernel path (required)")
	v.BindPFlags(flags)

	cmd.MarkFlagRequired("t0")
	cmd.MarkFlagRequired("tfinal")
	cmd.MarkFlagRequired("h")
	cmd.MarkFlagRequired("output-file")

	return cmd
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func runPropagate(cmd *cobra.Command, v *viper.Viper) error {
	start := time.Now()

	catalog := bodies.NewCatalog()
	if mk := v.GetString("mk"); mk != "" {
		data, err := os.ReadFile(mk)
		if err != nil {
			return fmt.Errorf("reading meta-kernel %s: %w", mk, err)
		}
		if err := catalog.Load(strings.Split(string(data), "\n")); err != nil {
			return err
		}
	}

	adapter := ephemeris.NewAdapter(catalog, logger)

	full := splitList(v.GetString("bodies"))
	small := splitList(v.GetString("small-bodies"))
	attractors := splitList(v.GetString("attractors"))
	cb := v.GetString("cb-id")

	var method propagate.Method
	h := v.GetFloat64("h") * 60 // minutes -> seconds
	switch strings.ToLower(v.GetString("method")) {
	case "", "rk4":
		method = propagate.RK4Method{H: h}
	case "euler":
		method = propagate.EulerMethod{H: h}
	case "dopri45":
		method = propagate.Dopri45Method{H: h, Atol: v.GetFloat64("atol"), Rtol: 0}
	default:
		return &propagate.ValidationError{Reason: fmt.Sprintf("unknown method %q", v.GetString("method"))}
	}

	cfg := propagate.Config{
		Full:       full,
		Small:      small,
		Attractors: attractors,
		CenterBody: cb,
		T0:         v.GetString("t0"),
		TFinal:     v.GetString("tfinal"),
		Method:     method,
	}

	logger.Log("level", "info", "subsys", "cmd", "message", "propagating")
	traj, err := propagate.Run(adapter, cfg)
	if err != nil {
		return err
	}

	logger.Log("level", "info", "subsys", "cmd", "message", "writing SPK", "samples", len(traj.ETs))
	if err := spk.Write(v.GetString("output-file"), traj.AllBodies, traj.ETs, traj.States, traj.CenterID, v.GetFloat64("fts")); err != nil {
		return err
	}

	logger.Log("level", "info", "subsys", "cmd", "message", "done", "elapsed", time.Since(start).String())
	return nil
}
