package export

import (
	"encoding/json"
	"io"

	"github.com/san-kum/teatro/internal/dynamo"
	"github.com/san-kum/teatro/internal/sim"
)

type ExportData struct {
	Scene    string             `json:"scene"`
	Dt       float64            `json:"dt"`
	Duration float64            `json:"duration"`
	Steps    int                `json:"steps"`
	Frames   []dynamo.Frame     `json:"frames"`
	Metrics  map[string]float64 `json:"metrics"`
	Errors   []string           `json:"errors,omitempty"`
}

func NewExportData(cfg sim.Config, result *sim.Result) ExportData {
	data := ExportData{
		Scene:    result.Scene,
		Dt:       cfg.Dt,
		Duration: cfg.Duration,
		Steps:    result.StepsTaken,
		Frames:   result.Frames,
		Metrics:  result.Metrics,
	}
	for _, err := range result.Errors {
		data.Errors = append(data.Errors, err.Error())
	}
	return data
}

func WriteJSON(out io.Writer, cfg sim.Config, result *sim.Result) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(NewExportData(cfg, result))
}
