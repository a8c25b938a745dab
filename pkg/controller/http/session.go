package http

import (
	"net/http"

	"github.com/gorilla/sessions"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
	"github.com/secmon-lab/logiclog/pkg/usecase"
	"github.com/secmon-lab/logiclog/pkg/utils/errutil"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

const (
	sessionRoleKey       = "role"
	sessionAuthorizedKey = "authorized"
	sessionFocusNameKey  = "focus_name"
	sessionFocusIDKey    = "focus_id"
)

// loadViewState reads the role and gate flag of the caller. A missing or
// undecodable cookie starts a fresh student session.
func (s *Server) loadViewState(r *http.Request) (*sessions.Session, *model.ViewState) {
	session, err := s.sessions.Get(r, s.sessionName)
	if err != nil {
		logging.From(r.Context()).Debug("session cookie ignored", "error", err)
	}

	state := model.NewViewState()
	if role, ok := session.Values[sessionRoleKey].(string); ok {
		if parsed, err := types.ParseRole(role); err == nil {
			state.Role = parsed
		}
	}
	if authorized, ok := session.Values[sessionAuthorizedKey].(bool); ok {
		state.Authorized = authorized && state.Role == types.RoleProfessor
	}
	state.Focus.Name, _ = session.Values[sessionFocusNameKey].(string)
	state.Focus.ID, _ = session.Values[sessionFocusIDKey].(string)
	return session, state
}

func (s *Server) saveViewState(w http.ResponseWriter, r *http.Request, session *sessions.Session, state *model.ViewState) error {
	session.Values[sessionRoleKey] = state.Role.String()
	session.Values[sessionAuthorizedKey] = state.Authorized
	session.Values[sessionFocusNameKey] = state.Focus.Name
	session.Values[sessionFocusIDKey] = state.Focus.ID
	if err := session.Save(r, w); err != nil {
		return goerr.Wrap(err, "failed to save session")
	}
	return nil
}

// requireDashboard rejects requests whose session has not passed the gate
func (s *Server) requireDashboard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, state := s.loadViewState(r)
		if err := s.uc.Gate.RequireDashboard(state); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type sessionResponse struct {
	Role       types.Role      `json:"role"`
	Authorized bool            `json:"authorized"`
	Focus      *model.Identity `json:"focus,omitempty"`
}

func toSessionResponse(state *model.ViewState) sessionResponse {
	resp := sessionResponse{Role: state.Role, Authorized: state.CanViewDashboard()}
	if state.Focus.IsComplete() {
		focus := state.Focus
		resp.Focus = &focus
	}
	return resp
}

func (s *Server) sessionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		_, state := s.loadViewState(r)
		writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(state))
	}
}

func (s *Server) roleHandler() http.HandlerFunc {
	type request struct {
		Role string `json:"role"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(w, r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}
		role, err := types.ParseRole(req.Role)
		if err != nil {
			errutil.HandleHTTP(r.Context(), w, goerr.Wrap(err, "unknown role"), http.StatusBadRequest)
			return
		}

		session, state := s.loadViewState(r)
		state.SwitchRole(role)
		if err := s.saveViewState(w, r, session, state); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(state))
	}
}

func (s *Server) gateHandler() http.HandlerFunc {
	type request struct {
		Passphrase string `json:"passphrase"`
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var req request
		if err := decodeJSON(w, r, &req); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusBadRequest)
			return
		}

		session, state := s.loadViewState(r)
		if err := s.uc.Gate.Unlock(r.Context(), state, req.Passphrase); err != nil {
			errutil.WriteJSONError(w, http.StatusUnauthorized, usecase.ErrPassphraseMismatch.Error())
			return
		}
		if err := s.saveViewState(w, r, session, state); err != nil {
			errutil.HandleHTTP(r.Context(), w, err, http.StatusInternalServerError)
			return
		}
		writeJSON(r.Context(), w, http.StatusOK, toSessionResponse(state))
	}
}
