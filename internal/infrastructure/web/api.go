package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"nexaplan/internal/domain/entity"
	"nexaplan/internal/infrastructure/report"

	"github.com/go-chi/chi/v5"
)

type optionsResponse struct {
	Cities         []entity.City          `json:"cities"`
	EventTypes     []entity.EventType     `json:"event_types"`
	TransportModes []entity.TransportMode `json:"transport_modes"`
}

// createRunRequest is a plan request plus an optional client-chosen run id.
type createRunRequest struct {
	entity.PlanRequest
	RunID string `json:"run_id"`
}

type runResponse struct {
	ID          string              `json:"id"`
	Report      string              `json:"report"`
	ReportHTML  string              `json:"report_html"`
	Stages      []entity.TaskOutput `json:"stages"`
	Metrics     []Metric            `json:"metrics"`
	Caption     string              `json:"caption"`
	CompletedAt time.Time           `json:"completed_at"`
}

func (s *Server) getOptions(w http.ResponseWriter, r *http.Request) {
	jsonResponse(w, optionsResponse{
		Cities:         entity.Cities,
		EventTypes:     entity.EventTypes,
		TransportModes: entity.TransportModes,
	})
}

// createRun runs the whole pipeline inside the request. The run is detached
// from the request context, so a client that disconnects does not stop it.
func (s *Server) createRun(w http.ResponseWriter, r *http.Request) {
	var req createRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, "invalid request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.runner.Run(context.WithoutCancel(r.Context()), req.RunID, req.PlanRequest)
	if err != nil {
		if errors.Is(err, entity.ErrInvalidRequest) {
			jsonError(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.logger.Error("Run failed", "error", err)
		jsonError(w, err.Error(), http.StatusBadGateway)
		return
	}

	reportHTML, err := report.Render(result.Report)
	if err != nil {
		s.logger.Warn("Report render failed", "run", result.ID, "error", err)
	}

	jsonResponse(w, runResponse{
		ID:          result.ID,
		Report:      result.Report,
		ReportHTML:  reportHTML,
		Stages:      result.Outputs,
		Metrics:     BuildMetrics(result.Request, result.CompletedAt),
		Caption:     Caption(result.CompletedAt),
		CompletedAt: result.CompletedAt,
	})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "run history is disabled", http.StatusNotFound)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := s.store.ListRuns(r.Context(), limit)
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if runs == nil {
		runs = []entity.RunRecord{}
	}
	jsonResponse(w, runs)
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		jsonError(w, "run history is disabled", http.StatusNotFound)
		return
	}

	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if run == nil {
		jsonError(w, "run not found", http.StatusNotFound)
		return
	}
	jsonResponse(w, run)
}

func jsonResponse(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
