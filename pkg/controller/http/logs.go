package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
	"github.com/secmon-lab/logiclog/pkg/service/logstore"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/secmon-lab/logiclog/pkg/utils/errutil"
)

// ConfirmHeader must be "yes" on DELETE requests
const ConfirmHeader = "X-Confirm"

const notSavedWarning = "the log was recorded but could not be saved to storage"

type stepResponse struct {
	ID    types.Step `json:"id"`
	Label string     `json:"label"`
}

func stepsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		steps := types.AllSteps()
		resp := make([]stepResponse, len(steps))
		for i, step := range steps {
			resp[i] = stepResponse{ID: step, Label: step.Label()}
		}
		writeJSON(r.Context(), w, http.StatusOK, map[string]any{"steps": resp})
	}
}

func draftHandler(uc *usecase.UseCases) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, uc.Log.NewDraft())
	}
}

func (s *Server) submitHandler() http.HandlerFunc {
	type response struct {
		Log     *model.LogRecord `json:"log"`
		Warning string           `json:"warning,omitempty"`
	}
	type invalidResponse struct {
		Error  string   `json:"error"`
		Fields []string `json:"fields"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var draft model.LogDraft
		if err := decodeJSON(w, r, &draft); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		record, err := s.uc.Log.Submit(r.Context(), &draft)
		if record != nil {
			s.rememberFocus(w, r, record.Identity())
		}
		switch {
		case err == nil:
			writeJSON(r.Context(), w, http.StatusCreated, response{Log: record})

		case errors.Is(err, usecase.ErrCannotSubmit):
			writeJSON(r.Context(), w, http.StatusBadRequest, invalidResponse{
				Error:  usecase.ErrCannotSubmit.Error(),
				Fields: draft.MissingFields(),
			})

		case errors.Is(err, logstore.ErrNotSaved) && record != nil:
			errutil.Handle(r.Context(), err, "log kept in memory only")
			writeJSON(r.Context(), w, http.StatusCreated, response{Log: record, Warning: notSavedWarning})

		default:
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
		}
	}
}

func isConfirmed(r *http.Request) bool {
	v := r.Header.Get(ConfirmHeader)
	if v == "" {
		v = r.URL.Query().Get("confirm")
	}
	return strings.EqualFold(v, "yes")
}

func deleteHandler(uc *usecase.UseCases) http.HandlerFunc {
	type response struct {
		ID      model.LogRecordID `json:"id"`
		Removed bool              `json:"removed"`
		Warning string            `json:"warning,omitempty"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		id := model.LogRecordID(chi.URLParam(r, "id"))

		removed, err := uc.Log.Delete(r.Context(), id, isConfirmed(r))
		switch {
		case errors.Is(err, usecase.ErrNotConfirmed):
			errutil.HandleHTTP(r.Context(), w,
				goerr.Wrap(err, "set "+ConfirmHeader+": yes to delete"),
				http.StatusPreconditionRequired)

		case errors.Is(err, logstore.ErrNotSaved):
			errutil.Handle(r.Context(), err, "deletion kept in memory only")
			writeJSON(r.Context(), w, http.StatusOK, response{ID: id, Removed: removed, Warning: notSavedWarning})

		case err != nil:
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)

		case !removed:
			errutil.WriteJSONError(w, http.StatusNotFound, "no log with this id")

		default:
			writeJSON(r.Context(), w, http.StatusOK, response{ID: id, Removed: true})
		}
	}
}

// rememberFocus points the session's timeline at who. Session write errors
// are only logged.
func (s *Server) rememberFocus(w http.ResponseWriter, r *http.Request, who model.Identity) {
	session, state := s.loadViewState(r)
	state.Focus = who
	if err := s.saveViewState(w, r, session, state); err != nil {
		errutil.Handle(r.Context(), err, "failed to remember timeline identity")
	}
}
