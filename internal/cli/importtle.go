package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/signalsfoundry/orbit-simulator/internal/tleimport"
)

func newImportTLECommand() *cobra.Command {
	var scaleKm float64

	cmd := &cobra.Command{
		Use:   "import-tle FILE",
		Short: "Fit orbit configurations to NORAD two-line element sets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			entries, err := readTLEs(f)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				return fmt.Errorf("no TLE entries in %q", args[0])
			}

			for _, e := range entries {
				fit, err := tleimport.Fit(e.name, e.line1, e.line2, tleimport.WithScale(scaleKm))
				if err != nil {
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", e.name, err)
					continue
				}

				cfg := fit.Config
				verdict := "valid"
				if !cfg.IsValid() {
					verdict = fmt.Sprintf("invalid: %v", cfg.ErrorsByField())
				}
				fmt.Fprintf(cmd.OutOrStdout(),
					"%s (NORAD %d): major=%.3f minor=%.3f steps=%d clockwise=%v period=%.1fmin apogee=%.0fkm perigee=%.0fkm -> %s\n",
					fit.Name, fit.NORADID,
					cfg.MajorWidth(), cfg.MinorWidth(), cfg.StepCount(), cfg.Clockwise(),
					fit.PeriodMinutes, fit.ApogeeKm, fit.PerigeeKm,
					verdict,
				)
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&scaleKm, "scale", 1000, "Kilometres per orbit-plane unit")
	return cmd
}

type tleEntry struct {
	name  string
	line1 string
	line2 string
}

// readTLEs reads 3-line NORAD TLE format: a name line followed by the two
// element lines.
func readTLEs(f *os.File) ([]tleEntry, error) {
	scanner := bufio.NewScanner(f)
	var lines []string
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r\n ")
		if line != "" {
			lines = append(lines, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading TLE data: %w", err)
	}

	var entries []tleEntry
	for i := 0; i+2 < len(lines); i += 3 {
		entries = append(entries, tleEntry{
			name:  strings.TrimSpace(lines[i]),
			line1: lines[i+1],
			line2: lines[i+2],
		})
	}
	return entries, nil
}
