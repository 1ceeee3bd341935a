package driver

import (
	"encoding/json"
	"fmt"

	"vmfkit/internal/diag"
	"vmfkit/internal/observ"
	"vmfkit/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// AppendTimings adds the timer report to bag as an info diagnostic whose
// note carries the report as JSON. The entry is added even when bag is full.
func AppendTimings(bag *diag.Bag, kind, path string, timer *observ.Timer) {
	if bag == nil || timer == nil {
		return
	}
	report := timer.Report()
	appendTimingDiagnostic(bag, timingPayload{
		Kind:    kind,
		Path:    path,
		TotalMS: report.TotalMS,
		Phases:  report.Phases,
	})
}

func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if payload.Kind == "" {
		payload.Kind = "pipeline"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	noFile := source.Span{File: source.NoFile}
	entry := diag.New(diag.SevInfo, diag.ObsTimings, noFile, msg).WithNote(noFile, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(1)
	overflow.Add(entry)
	bag.Merge(overflow)
}
