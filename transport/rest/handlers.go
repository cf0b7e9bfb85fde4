package rest

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/rocketscienceinc/tictactoe-solo/internal/entity"
)

type gameManager interface {
	Snapshot() entity.Snapshot
	SubmitMove(cellNo int) entity.Snapshot
	Restart() entity.Snapshot
}

type handlers struct {
	logger  *slog.Logger
	manager gameManager
}

func (that *handlers) state(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.manager.Snapshot())
}

// move submits a 1-based cell. Illegal moves leave the state untouched and still answer 200.
func (that *handlers) move(w http.ResponseWriter, r *http.Request) {
	cellNo, err := strconv.Atoi(chi.URLParam(r, "cell"))
	if err != nil {
		http.Error(w, "cell must be a number", http.StatusBadRequest)
		return
	}

	that.writeJSON(w, http.StatusOK, that.manager.SubmitMove(cellNo))
}

func (that *handlers) restart(w http.ResponseWriter, _ *http.Request) {
	that.writeJSON(w, http.StatusOK, that.manager.Restart())
}

func (that *handlers) writeJSON(w http.ResponseWriter, status int, snap entity.Snapshot) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(snap); err != nil {
		that.logger.Error("failed to write response", "error", err)
	}
}
