package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/skyf0l/basecracker/pkg/buildinfo"
	"github.com/skyf0l/basecracker/pkg/cracker"
	errs "github.com/skyf0l/basecracker/pkg/errors"
	"github.com/skyf0l/basecracker/pkg/pipeline"
	"github.com/skyf0l/basecracker/pkg/scheme"
	"github.com/skyf0l/basecracker/pkg/service"
)

type pipelineRequest struct {
	Text string `json:"text"`
	// Schemes entries may themselves be space or comma separated.
	Schemes []string `json:"schemes"`
}

type pipelineResponse struct {
	*pipeline.Result
	Cached   bool     `json:"cached"`
	Warnings []string `json:"warnings,omitempty"`
}

type crackRequest struct {
	Text        string  `json:"text"`
	Threshold   float64 `json:"threshold,omitempty"`
	MaxDepth    int     `json:"max_depth,omitempty"`
	MaxFrontier int     `json:"max_frontier,omitempty"`
	Refresh     bool    `json:"refresh,omitempty"`
}

type crackResponse struct {
	*cracker.Report
	Cached   bool     `json:"cached"`
	Warnings []string `json:"warnings,omitempty"`
}

type errorResponse struct {
	Code  string `json:"code"`
	Error string `json:"error"`
	// Step and Scheme locate a failed decode in a pipeline.
	Step   *int   `json:"step,omitempty"`
	Scheme string `json:"scheme,omitempty"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"build":  buildinfo.Get(),
	})
}

func (s *Server) schemes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]scheme.Info{"schemes": s.svc.Registry.Infos()})
}

func (s *Server) encode(w http.ResponseWriter, r *http.Request) {
	s.runPipeline(w, r, s.svc.Encode)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) {
	s.runPipeline(w, r, s.svc.Decode)
}

type pipelineFunc func(ctx context.Context, text string, names []string) (*pipeline.Result, service.CacheInfo, error)

func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request, run pipelineFunc) {
	var req pipelineRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	names := scheme.ParseLists(req.Schemes)
	if len(names) == 0 {
		writeError(w, http.StatusBadRequest, string(errs.ErrCodeInvalidInput), "no schemes given")
		return
	}

	res, info, err := run(r.Context(), req.Text, names)
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := pipelineResponse{Result: res, Cached: info.Hit}
	for _, sk := range res.Skipped {
		resp.Warnings = append(resp.Warnings, sk.String())
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) crack(w http.ResponseWriter, r *http.Request) {
	var req crackRequest
	if !s.readJSON(w, r, &req) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), s.opts.CrackTimeout)
	defer cancel()

	rep, info, err := s.svc.CrackWith(ctx, service.CrackRequest{
		Input: req.Text,
		Options: cracker.Options{
			Threshold:   req.Threshold,
			MaxDepth:    req.MaxDepth,
			MaxFrontier: req.MaxFrontier,
		},
		Refresh: req.Refresh,
	})
	if err != nil {
		s.fail(w, err)
		return
	}
	resp := crackResponse{Report: rep, Cached: info.Hit}
	if warn := rep.Warning(); warn != nil {
		resp.Warnings = append(resp.Warnings, errs.UserMessage(warn))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		switch {
		case errors.As(err, &tooBig):
			writeError(w, http.StatusRequestEntityTooLarge, string(errs.ErrCodeInvalidInput), "request body too large")
		case errors.Is(err, io.EOF):
			writeError(w, http.StatusBadRequest, string(errs.ErrCodeInvalidInput), "empty request body")
		default:
			writeError(w, http.StatusBadRequest, string(errs.ErrCodeInvalidInput), "invalid JSON: "+err.Error())
		}
		return false
	}
	return true
}

// fail maps a service error to a response.
func (s *Server) fail(w http.ResponseWriter, err error) {
	code := errs.GetCode(err)
	status := statusFor(err)
	if status >= 500 {
		s.logger.Error("request failed", "err", err)
	}
	if code == "" {
		code = errs.ErrCodeInternal
	}

	resp := errorResponse{Code: string(code), Error: errs.UserMessage(err)}
	var se *pipeline.StepError
	if errors.As(err, &se) {
		step := se.Index
		resp.Step = &step
		resp.Scheme = se.Scheme
		resp.Error = se.Error()
	}
	writeJSON(w, status, resp)
}

func statusFor(err error) int {
	switch {
	case errs.IsDecodeFailure(err):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable
	}
	switch errs.GetCode(err) {
	case errs.ErrCodeInvalidInput, errs.ErrCodeInvalidConfig, errs.ErrCodeEmptyInput:
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Code: code, Error: msg})
}
