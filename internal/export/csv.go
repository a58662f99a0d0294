package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/teatro/internal/sim"
)

var csvAxes = []string{"x", "y", "z", "vx", "vy", "vz"}

// WriteCSV writes one row per recorded frame: time, then position and
// velocity of every body in the order of the first frame.
func WriteCSV(out io.Writer, result *sim.Result) error {
	w := csv.NewWriter(out)

	if len(result.Frames) == 0 {
		w.Flush()
		return w.Error()
	}

	names := make([]string, len(result.Frames[0].Bodies))
	header := []string{"time"}
	for i, b := range result.Frames[0].Bodies {
		names[i] = b.Name
		for _, axis := range csvAxes {
			header = append(header, fmt.Sprintf("%s.%s", b.Name, axis))
		}
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, f := range result.Frames {
		row := []string{format(f.Time)}
		for _, name := range names {
			b, ok := f.Body(name)
			if !ok {
				return fmt.Errorf("frame at t=%g has no body %q", f.Time, name)
			}
			for i := 0; i < 3; i++ {
				row = append(row, format(b.Position[i]))
			}
			for i := 0; i < 3; i++ {
				row = append(row, format(b.Velocity[i]))
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func format(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
