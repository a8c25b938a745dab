package model

import "github.com/secmon-lab/logiclog/pkg/domain/types"

// ViewState is transient per-session state of a front end. It is never
// written to the blob store.
type ViewState struct {
	Role       types.Role
	Authorized bool
	// Focus is the identity of the last submitted log; the timeline opens with it
	Focus Identity
}

// NewViewState starts in the student role without authorization
func NewViewState() *ViewState {
	return &ViewState{Role: types.RoleStudent}
}

// SwitchRole changes the role and drops any earlier authorization
func (x *ViewState) SwitchRole(role types.Role) {
	x.Role = role
	x.Authorized = false
}

// CanViewDashboard reports whether the aggregate view may be rendered
func (x *ViewState) CanViewDashboard() bool {
	return x.Role == types.RoleProfessor && x.Authorized
}
