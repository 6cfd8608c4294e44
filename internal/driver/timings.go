package driver

import (
	"encoding/json"
	"fmt"

	"typeflow/internal/diag"
	"typeflow/internal/observ"
	"typeflow/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic attaches the timing report as an OBS6001 info
// diagnostic whose single note carries the JSON payload. It bypasses the
// bag limit: timings are requested explicitly.
func appendTimingDiagnostic(bag *diag.Bag, path string, report *observ.Report) {
	if bag == nil || report == nil {
		return
	}
	payload := timingPayload{
		Kind:    "pipeline",
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	d := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).WithNote(source.Span{}, string(data))
	if bag.Add(d) {
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(d)
	bag.Merge(overflow)
}
