package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"go.opentelemetry.io/otel/trace"

	"github.com/deveshc20/cricket-auction/internal/engine"
	"github.com/deveshc20/cricket-auction/internal/event"
	"github.com/deveshc20/cricket-auction/internal/export"
	"github.com/deveshc20/cricket-auction/internal/ledger"
	"github.com/deveshc20/cricket-auction/internal/roster"
	"github.com/deveshc20/cricket-auction/internal/telemetry"
)

// maxUploadBytes caps roster uploads.
const maxUploadBytes = 8 << 20

// Handlers processes operator requests against the auction session.
type Handlers struct {
	session *engine.Session
	events  event.Store
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewHandlers creates new API handlers.
func NewHandlers(session *engine.Session, events event.Store, logger *slog.Logger, tp trace.TracerProvider) *Handlers {
	return &Handlers{
		session: session,
		events:  events,
		logger:  logger,
		tracer:  tp.Tracer("github.com/deveshc20/cricket-auction/internal/httpapi"),
	}
}

// UploadRoster accepts either a multipart xlsx upload (field "file") or a
// JSON body {"rows": [...]} and installs the roster.
func (h *Handlers) UploadRoster(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.UploadRoster")
	defer span.End()

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	var rows []roster.Row
	if file, _, err := r.FormFile("file"); err == nil {
		defer file.Close()
		rows, err = roster.ParseWorkbook(file)
		if err != nil {
			writeError(w, err)
			return
		}
	} else {
		var body struct {
			Rows []roster.Row `json:"rows"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeError(w, fmt.Errorf("%w: decoding body: %v", roster.ErrInvalidRoster, err))
			return
		}
		rows = body.Rows
	}

	if err := h.session.LoadRoster(ctx, rows); err != nil {
		writeError(w, err)
		return
	}

	telemetry.LogWithTrace(ctx, h.logger).InfoContext(ctx, "roster uploaded", slog.Int("players", len(rows)))
	writeJSON(w, http.StatusCreated, map[string]int{"players": len(rows)})
}

// ConfigureTeams replaces the bidding teams.
func (h *Handlers) ConfigureTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.ConfigureTeams")
	defer span.End()

	var body struct {
		Teams []ledger.Spec `json:"teams"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: decoding body: %v", ledger.ErrInvalidTeams, err))
		return
	}

	if err := h.session.ConfigureTeams(ctx, body.Teams); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, h.session.Snapshot().Teams)
}

// Draw picks the next random player into the draw slot.
func (h *Handlers) Draw(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.Draw")
	defer span.End()

	p, err := h.session.DrawNext(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Sold resolves the drawn player as sold.
func (h *Handlers) Sold(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.Sold")
	defer span.End()

	var body struct {
		Team  string `json:"team"`
		Price int    `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: decoding body: %v", engine.ErrInvalidPrice, err))
		return
	}

	res, err := h.session.MarkSold(ctx, body.Team, body.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Unsold resolves the drawn player as passed.
func (h *Handlers) Unsold(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.Unsold")
	defer span.End()

	res, err := h.session.MarkUnsold(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Correct converts a previously unsold player into a sale.
func (h *Handlers) Correct(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.Correct")
	defer span.End()

	var body struct {
		PlayerNo string `json:"player_no"`
		Team     string `json:"team"`
		Price    int    `json:"price"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, fmt.Errorf("%w: decoding body: %v", engine.ErrInvalidPrice, err))
		return
	}

	res, err := h.session.CorrectUnsold(ctx, body.PlayerNo, body.Team, body.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Undo reverses the most recent committed action.
func (h *Handlers) Undo(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.Undo")
	defer span.End()

	kind, err := h.session.Undo(ctx)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"undone": string(kind)})
}

// Restart clears auction progress while keeping roster and teams.
func (h *Handlers) Restart(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.Restart")
	defer span.End()

	h.session.Restart(ctx)
	w.WriteHeader(http.StatusNoContent)
}

// ClearSession discards all session state including configuration.
func (h *Handlers) ClearSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.ClearSession")
	defer span.End()

	h.session.ClearAll(ctx)
	w.WriteHeader(http.StatusNoContent)
}

// GetSession returns the read-only session snapshot.
func (h *Handlers) GetSession(w http.ResponseWriter, r *http.Request) {
	_, span := h.tracer.Start(r.Context(), "Handlers.GetSession")
	defer span.End()

	writeJSON(w, http.StatusOK, h.session.Snapshot())
}

// ListEvents returns the session's audit log.
func (h *Handlers) ListEvents(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.ListEvents")
	defer span.End()

	events, err := h.events.Load(ctx, h.session.ID())
	if err != nil {
		writeError(w, err)
		return
	}
	if events == nil {
		events = []event.Event{}
	}
	writeJSON(w, http.StatusOK, events)
}

// Export streams the results workbook.
func (h *Handlers) Export(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "Handlers.Export")
	defer span.End()

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="auction_results.xlsx"`)
	if err := export.Write(w, h.session.ExportView()); err != nil {
		// Headers are already gone; log rather than rewrite the status.
		telemetry.LogWithTrace(ctx, h.logger).ErrorContext(ctx, "export failed", slog.Any("error", err))
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	writeJSON(w, statusFor(err), map[string]string{"error": err.Error()})
}

// statusFor maps core error taxonomy onto HTTP status codes: bad input is
// 400, unknown identifiers 404, and rejections of otherwise well-formed
// requests 409.
func statusFor(err error) int {
	switch {
	case errors.Is(err, roster.ErrInvalidRoster),
		errors.Is(err, ledger.ErrInvalidTeams),
		errors.Is(err, ledger.ErrNegativePrice),
		errors.Is(err, engine.ErrInvalidPrice):
		return http.StatusBadRequest
	case errors.Is(err, roster.ErrPlayerNotFound),
		errors.Is(err, ledger.ErrTeamNotFound),
		errors.Is(err, engine.ErrNoUnsoldResult):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrBudgetExceeded),
		errors.Is(err, ledger.ErrAlreadyAcquired),
		errors.Is(err, engine.ErrNoRoster),
		errors.Is(err, engine.ErrNoTeams),
		errors.Is(err, engine.ErrDrawInProgress),
		errors.Is(err, engine.ErrNoCurrentDraw),
		errors.Is(err, engine.ErrNoPlayersLeft),
		errors.Is(err, engine.ErrEmptyHistory):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
