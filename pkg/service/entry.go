package service

import (
	"github.com/skyf0l/basecracker/pkg/cracker"
	"github.com/skyf0l/basecracker/pkg/pipeline"
)

// Cache entries hold every user-derived text as []byte, which encoding/json
// writes as base64. A plain string field would have invalid UTF-8 replaced
// with U+FFFD, so a decoded binary value would come back altered on a hit.

type stepEntry struct {
	Scheme string `json:"scheme"`
	ID     string `json:"id"`
	Text   []byte `json:"text"`
}

type skipEntry struct {
	Index int    `json:"index"`
	Name  []byte `json:"name"`
}

type pipelineEntry struct {
	Direction pipeline.Direction `json:"direction"`
	Input     []byte             `json:"input"`
	Value     []byte             `json:"value"`
	Steps     []stepEntry        `json:"steps"`
	Skipped   []skipEntry        `json:"skipped,omitempty"`
}

type resultEntry struct {
	Input     []byte      `json:"input"`
	Schemes   []string    `json:"schemes"`
	IDs       []string    `json:"ids"`
	Plaintext []byte      `json:"plaintext"`
	Steps     []stepEntry `json:"steps"`
}

type reportEntry struct {
	ID      string         `json:"id"`
	Input   []byte         `json:"input"`
	Status  cracker.Status `json:"status"`
	Results []resultEntry  `json:"results"`
	Stats   cracker.Stats  `json:"stats"`
}

func toSteps(steps []pipeline.Step) []stepEntry {
	if steps == nil {
		return nil
	}
	out := make([]stepEntry, len(steps))
	for i, s := range steps {
		out[i] = stepEntry{Scheme: s.Scheme, ID: s.ID, Text: []byte(s.Text)}
	}
	return out
}

func fromSteps(steps []stepEntry) []pipeline.Step {
	if steps == nil {
		return nil
	}
	out := make([]pipeline.Step, len(steps))
	for i, s := range steps {
		out[i] = pipeline.Step{Scheme: s.Scheme, ID: s.ID, Text: string(s.Text)}
	}
	return out
}

func newPipelineEntry(r *pipeline.Result) *pipelineEntry {
	e := &pipelineEntry{
		Direction: r.Direction,
		Input:     []byte(r.Input),
		Value:     []byte(r.Value),
		Steps:     toSteps(r.Steps),
	}
	for _, sk := range r.Skipped {
		e.Skipped = append(e.Skipped, skipEntry{Index: sk.Index, Name: []byte(sk.Name)})
	}
	return e
}

func (e *pipelineEntry) result() *pipeline.Result {
	r := &pipeline.Result{
		Direction: e.Direction,
		Input:     string(e.Input),
		Value:     string(e.Value),
		Steps:     fromSteps(e.Steps),
	}
	for _, sk := range e.Skipped {
		r.Skipped = append(r.Skipped, pipeline.Skip{Index: sk.Index, Name: string(sk.Name)})
	}
	return r
}

func newReportEntry(r *cracker.Report) *reportEntry {
	e := &reportEntry{ID: r.ID, Input: []byte(r.Input), Status: r.Status, Stats: r.Stats}
	if r.Results != nil {
		e.Results = make([]resultEntry, len(r.Results))
	}
	for i, res := range r.Results {
		e.Results[i] = resultEntry{
			Input:     []byte(res.Input),
			Schemes:   res.Schemes,
			IDs:       res.IDs,
			Plaintext: []byte(res.Plaintext),
			Steps:     toSteps(res.Steps),
		}
	}
	return e
}

// report rebuilds the cached report. The exploration tree is never cached.
func (e *reportEntry) report() *cracker.Report {
	r := &cracker.Report{ID: e.ID, Input: string(e.Input), Status: e.Status, Stats: e.Stats}
	if e.Results != nil {
		r.Results = make([]cracker.Result, len(e.Results))
	}
	for i, res := range e.Results {
		r.Results[i] = cracker.Result{
			Input:     string(res.Input),
			Schemes:   res.Schemes,
			IDs:       res.IDs,
			Plaintext: string(res.Plaintext),
			Steps:     fromSteps(res.Steps),
		}
	}
	return r
}
