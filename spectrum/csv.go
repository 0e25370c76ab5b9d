package spectrum

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV reads a spectrum from CSV data with two or three numeric columns:
// wavelength, flux and an optional per-sample sigma. A single leading
// non-numeric header row is skipped; blank lines are ignored.
func ReadCSV(r io.Reader) (Spectrum, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var (
		wavelength []float64
		flux       []float64
		sigma      []float64
		line       int
	)

	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}

		if err != nil {
			return Spectrum{}, fmt.Errorf("spectrum: read csv: %w", err)
		}

		line++

		if isBlank(record) {
			continue
		}

		if len(record) != 2 && len(record) != 3 {
			return Spectrum{}, fmt.Errorf("spectrum: csv line %d: want 2 or 3 columns, got %d",
				line, len(record))
		}

		w, errW := parseField(record[0])
		f, errF := parseField(record[1])

		if errW != nil || errF != nil {
			// A single leading header row is tolerated.
			if line == 1 && len(wavelength) == 0 {
				continue
			}

			if errW != nil {
				return Spectrum{}, fmt.Errorf("spectrum: csv line %d: wavelength %q: %w",
					line, record[0], errW)
			}

			return Spectrum{}, fmt.Errorf("spectrum: csv line %d: flux %q: %w",
				line, record[1], errF)
		}

		wavelength = append(wavelength, w)
		flux = append(flux, f)

		if len(record) == 3 {
			sg, err := parseField(record[2])
			if err != nil {
				return Spectrum{}, fmt.Errorf("spectrum: csv line %d: sigma %q: %w",
					line, record[2], err)
			}

			sigma = append(sigma, sg)
		} else if sigma != nil {
			return Spectrum{}, fmt.Errorf("spectrum: csv line %d: sigma column missing", line)
		}
	}

	if sigma != nil && len(sigma) != len(wavelength) {
		return Spectrum{}, fmt.Errorf("spectrum: csv: sigma column incomplete (%d of %d rows)",
			len(sigma), len(wavelength))
	}

	s, err := New(wavelength, flux)
	if err != nil {
		return Spectrum{}, err
	}

	if sigma != nil {
		return s.WithSigma(sigma)
	}

	return s, nil
}

// ReadFile reads a spectrum from a CSV file.
func ReadFile(path string) (Spectrum, error) {
	f, err := os.Open(path)
	if err != nil {
		return Spectrum{}, fmt.Errorf("spectrum: %w", err)
	}
	defer f.Close()

	s, err := ReadCSV(f)
	if err != nil {
		return Spectrum{}, fmt.Errorf("%w (file %s)", err, path)
	}

	return s, nil
}

// WriteCSV writes the spectrum as CSV rows (wavelength, flux[, sigma]) with
// full float64 precision.
func (s Spectrum) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	record := make([]string, 2, 3)
	if s.Sigma != nil {
		record = record[:3]
	}

	for i := range s.Wavelength {
		record[0] = strconv.FormatFloat(s.Wavelength[i], 'g', -1, 64)
		record[1] = strconv.FormatFloat(s.Flux[i], 'g', -1, 64)

		if s.Sigma != nil {
			record[2] = strconv.FormatFloat(s.Sigma[i], 'g', -1, 64)
		}

		if err := cw.Write(record); err != nil {
			return fmt.Errorf("spectrum: write csv: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return fmt.Errorf("spectrum: write csv: %w", err)
	}

	return nil
}

func parseField(field string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(field), 64)
}

func isBlank(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}

	return true
}
