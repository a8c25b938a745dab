package usecase

import (
	"time"

	"github.com/secmon-lab/logiclog/pkg/domain/interfaces"
)

// DefaultPassphrase opens the dashboard when no other value is configured
const DefaultPassphrase = "2026"

type UseCases struct {
	store      interfaces.LogStore
	passphrase string
	now        func() time.Time
	Log        *LogUseCase
	View       *ViewUseCase
	Gate       *GateUseCase
	Transfer   *TransferUseCase
}

type Option func(*UseCases)

// WithPassphrase sets the shared passphrase of the dashboard gate
func WithPassphrase(passphrase string) Option {
	return func(uc *UseCases) {
		uc.passphrase = passphrase
	}
}

// WithClock replaces time.Now for form defaults and the current month
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(store interfaces.LogStore, opts ...Option) *UseCases {
	uc := &UseCases{
		store:      store,
		passphrase: DefaultPassphrase,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	uc.Log = NewLogUseCase(store, uc.now)
	uc.View = NewViewUseCase(store, uc.now)
	uc.Gate = NewGateUseCase(uc.passphrase)
	uc.Transfer = NewTransferUseCase(store)

	return uc
}
