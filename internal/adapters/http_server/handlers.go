package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jaiwee/cathay-chuangx5/internal/app"
	"github.com/jaiwee/cathay-chuangx5/internal/domain"
)

type Handlers struct {
	Pipeline *app.Pipeline
	Store    domain.ProposalStore
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
	Step   string `json:"step,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Post("/v1/forms", h.createForm)
	s.mux.Post("/v1/proposals", h.createProposal)
}

func writeProblem(w http.ResponseWriter, p problem) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(p.Status)
	p.Type = "about:blank"
	if err := json.NewEncoder(w).Encode(p); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON body failed")
	}
}

func (h *Handlers) createForm(w http.ResponseWriter, r *http.Request) {
	var req domain.EventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeProblem(w, problem{Title: "Invalid Body", Status: http.StatusBadRequest, Detail: "body must be a JSON event request"})
		return
	}
	if err := req.Validate(); err != nil {
		writeProblem(w, problem{Title: "Invalid Form", Status: http.StatusUnprocessableEntity, Detail: err.Error()})
		return
	}
	id, err := h.Store.InsertForm(r.Context(), req)
	if err != nil {
		log.Error().Err(err).Msg("form insert failed")
		writeProblem(w, problem{Title: "Storage Failure", Status: http.StatusInternalServerError})
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

// proposalRequest carries either a form id to look up or a full inline
// event request. With neither, the most recently created form is used.
type proposalRequest struct {
	FormID int64 `json:"form_id"`
	domain.EventRequest
}

func (h *Handlers) createProposal(w http.ResponseWriter, r *http.Request) {
	var body proposalRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeProblem(w, problem{Title: "Invalid Body", Status: http.StatusBadRequest, Detail: "body must be a JSON object"})
		return
	}

	req, err := h.resolveRequest(r, body)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeProblem(w, problem{Title: "Form Not Found", Status: http.StatusNotFound, Detail: err.Error()})
			return
		}
		if se, ok := domain.AsStepError(err); ok && se.Kind == domain.KindInput {
			writeProblem(w, problem{Title: "Invalid Request", Status: http.StatusUnprocessableEntity, Detail: se.Err.Error()})
			return
		}
		log.Error().Err(err).Msg("form resolution failed")
		writeProblem(w, problem{Title: "Storage Failure", Status: http.StatusInternalServerError})
		return
	}

	proposal, err := h.Pipeline.Run(r.Context(), req)
	if err != nil {
		writePipelineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, proposal)
}

// resolveRequest turns the trigger body into a runnable EventRequest. An
// inline payload (recognized by a non-empty theme) is persisted as a new
// form record so the pipeline has an identifier to cross-reference.
func (h *Handlers) resolveRequest(r *http.Request, body proposalRequest) (domain.EventRequest, error) {
	if body.Theme == "" {
		id := body.FormID
		if id == 0 {
			var err error
			id, err = h.Store.LatestFormID(r.Context())
			if err != nil {
				return domain.EventRequest{}, err
			}
		}
		req, err := h.Store.GetForm(r.Context(), id)
		if err != nil {
			return domain.EventRequest{}, err
		}
		req.FormID = id
		return req, nil
	}

	req := body.EventRequest
	if err := req.Validate(); err != nil {
		return domain.EventRequest{}, domain.NewStepError("input", domain.KindInput, err)
	}
	id, err := h.Store.InsertForm(r.Context(), req)
	if err != nil {
		return domain.EventRequest{}, err
	}
	req.FormID = id
	return req, nil
}

// writePipelineError maps a failed run onto a problem response: client
// input 422, generation-service failures 502, everything else 500. The
// originating step and failure kind are included for the UI.
func writePipelineError(w http.ResponseWriter, err error) {
	se, ok := domain.AsStepError(err)
	if !ok {
		writeProblem(w, problem{Title: "Pipeline Failure", Status: http.StatusInternalServerError, Detail: err.Error()})
		return
	}
	status := http.StatusInternalServerError
	switch se.Kind {
	case domain.KindInput:
		status = http.StatusUnprocessableEntity
	case domain.KindUpstream, domain.KindMalformedOutput, domain.KindSchemaViolation:
		status = http.StatusBadGateway
	}
	writeProblem(w, problem{
		Title:  "Pipeline Failure",
		Status: status,
		Detail: se.Err.Error(),
		Step:   se.Step,
		Kind:   se.Kind.String(),
	})
}
