package usecase

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/logiclog/pkg/domain/model"
	"github.com/secmon-lab/logiclog/pkg/domain/types"
	"github.com/secmon-lab/logiclog/pkg/utils/logging"
)

// GateUseCase compares input with one shared passphrase to unlock the
// dashboard. This is a soft gate that keeps casual users out of the
// aggregate view. It is NOT authentication: the passphrase is a static
// value shared by every instructor, and every student can read the
// underlying storage anyway.
type GateUseCase struct {
	passphrase string
}

func NewGateUseCase(passphrase string) *GateUseCase {
	return &GateUseCase{passphrase: passphrase}
}

// Verify checks input against the passphrase. Retries are unlimited.
func (uc *GateUseCase) Verify(input string) error {
	if input != uc.passphrase {
		return goerr.Wrap(ErrPassphraseMismatch, "passphrase rejected")
	}
	return nil
}

// Unlock switches state to the professor role and marks it authorized when
// input matches. On mismatch state is left unchanged.
func (uc *GateUseCase) Unlock(ctx context.Context, state *model.ViewState, input string) error {
	if err := uc.Verify(input); err != nil {
		logging.From(ctx).Info("dashboard passphrase rejected")
		return err
	}

	state.Role = types.RoleProfessor
	state.Authorized = true
	return nil
}

// RequireDashboard returns ErrNotAuthorized unless state may see the dashboard
func (uc *GateUseCase) RequireDashboard(state *model.ViewState) error {
	if state == nil || !state.CanViewDashboard() {
		return goerr.Wrap(ErrNotAuthorized, "dashboard is locked")
	}
	return nil
}
