package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/desertthunder/prima/internal/formatter"
	"github.com/desertthunder/prima/internal/models"
	"github.com/desertthunder/prima/internal/services"
	"github.com/desertthunder/prima/internal/shared"
	"github.com/desertthunder/prima/internal/studio"
)

const maxBodyBytes = 1 << 20

type startShiftRequest struct {
	Platforms []string `json:"platforms"`
}

type endShiftRequest struct {
	Tokens map[string]string `json:"tokens"`
}

type activeShiftResponse struct {
	Active      bool          `json:"active"`
	Shift       *models.Shift `json:"shift,omitempty"`
	ElapsedMs   int64         `json:"elapsedMs"`
	ElapsedText string        `json:"elapsedText,omitempty"`
}

type statsResponse struct {
	Operator studio.OperatorStats `json:"operator"`
	Studio   *studio.StudioTotals `json:"studio,omitempty"`
}

type reportResponse struct {
	Text     string `json:"text"`
	ShareURL string `json:"shareUrl"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return false
	}
	return true
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *API) handleMe(w http.ResponseWriter, r *http.Request) {
	user, _ := UserFrom(r.Context())
	writeJSON(w, http.StatusOK, user)
}

func (a *API) handleHistory(w http.ResponseWriter, r *http.Request) {
	history, err := a.Manager.History()
	if err != nil {
		a.fail(w, err)
		return
	}
	if history == nil {
		history = []models.Shift{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (a *API) handleActiveShift(w http.ResponseWriter, r *http.Request) {
	shift, ok, err := a.Manager.Current()
	if err != nil {
		a.fail(w, err)
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, activeShiftResponse{})
		return
	}

	elapsed := studio.Elapsed(shift, a.now())
	writeJSON(w, http.StatusOK, activeShiftResponse{
		Active:      true,
		Shift:       &shift,
		ElapsedMs:   elapsed.Milliseconds(),
		ElapsedText: studio.FormatElapsed(elapsed),
	})
}

func (a *API) handleStartShift(w http.ResponseWriter, r *http.Request) {
	var req startShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	selected := make([]models.PlatformName, 0, len(req.Platforms))
	for _, raw := range req.Platforms {
		if name, ok := models.ParsePlatformName(raw); ok {
			selected = append(selected, name)
		}
	}

	user, _ := UserFrom(r.Context())
	shift, err := a.Manager.Start(user, selected)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, shift)
}

func (a *API) handleEndShift(w http.ResponseWriter, r *http.Request) {
	var req endShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}

	shift, err := a.Manager.EndRaw(r.Context(), req.Tokens, nil)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shift)
}

func (a *API) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := a.Manager.Stats()
	if err != nil {
		a.fail(w, err)
		return
	}

	resp := statsResponse{Operator: stats}
	if user, _ := UserFrom(r.Context()); user.Role == models.RoleAdmin {
		totals, err := a.Manager.Totals()
		if err != nil {
			a.fail(w, err)
			return
		}
		resp.Studio = &totals
	}
	writeJSON(w, http.StatusOK, resp)
}

func (a *API) handleReport(w http.ResponseWriter, r *http.Request) {
	totals, err := a.Manager.Totals()
	if err != nil {
		a.fail(w, err)
		return
	}

	text := formatter.ReportText(totals, a.StudioName, a.now())
	writeJSON(w, http.StatusOK, reportResponse{Text: text, ShareURL: services.ShareURL(a.AppURL, text)})
}

func (a *API) handleTasks(w http.ResponseWriter, r *http.Request) {
	if a.Planner == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Planner unavailable")
		return
	}

	day := 0
	if raw := r.URL.Query().Get("day"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 0 || d > 31 {
			a.fail(w, shared.ErrInvalidArgument)
			return
		}
		day = d
	}

	tasks, err := a.Planner.Tasks(day)
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (a *API) handleSchedule(w http.ResponseWriter, r *http.Request) {
	if a.Planner == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Planner unavailable")
		return
	}

	days, err := a.Planner.Schedule()
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, days)
}

func (a *API) handleGuides(w http.ResponseWriter, r *http.Request) {
	if a.Planner == nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Planner unavailable")
		return
	}

	guides, err := a.Planner.Guides()
	if err != nil {
		a.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guides)
}

// fail logs unexpected errors and writes the mapped response.
func (a *API) fail(w http.ResponseWriter, err error) {
	if !shared.IsRejection(err) {
		a.Logger.Error("request failed", "error", err)
	}
	writeDomainError(w, err)
}
