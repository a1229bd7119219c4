package commands

import (
	"go.trai.ch/chtl/internal/app"
	"go.trai.ch/chtl/internal/core/domain"
)

type outcomeJSON struct {
	Target     string   `json:"target"`
	Success    bool     `json:"success"`
	Kind       string   `json:"kind,omitempty"`
	Errors     []string `json:"errors,omitempty"`
	Warnings   []string `json:"warnings,omitempty"`
	Cached     bool     `json:"cached,omitempty"`
	Duplicate  bool     `json:"duplicate,omitempty"`
	CycleChain []string `json:"cycleChain,omitempty"`
}

type reportJSON struct {
	RunID      string            `json:"runId"`
	Entry      string            `json:"entry"`
	Outcomes   []outcomeJSON     `json:"outcomes"`
	Statistics domain.Statistics `json:"statistics"`
	Warnings   []string          `json:"warnings,omitempty"`
}

func toJSON(reports []app.EntryReport) []reportJSON {
	out := make([]reportJSON, 0, len(reports))
	for _, r := range reports {
		rj := reportJSON{
			RunID:      r.RunID,
			Entry:      r.Entry.String(),
			Outcomes:   make([]outcomeJSON, 0, len(r.Outcomes)),
			Statistics: r.Statistics,
			Warnings:   r.Warnings,
		}
		for _, o := range r.Outcomes {
			oj := outcomeJSON{
				Target:    o.Target.String(),
				Success:   o.Success,
				Errors:    o.Errors,
				Warnings:  o.Warnings,
				Cached:    o.WasCached,
				Duplicate: o.WasDuplicate,
			}
			if !o.Success {
				oj.Kind = o.Kind.String()
			}
			for _, p := range o.CycleChain {
				oj.CycleChain = append(oj.CycleChain, p.String())
			}
			rj.Outcomes = append(rj.Outcomes, oj)
		}
		out = append(out, rj)
	}
	return out
}
