package usecase_test

import (
	"errors"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/secmon-lab/logiclog/pkg/usecase"
)

func TestErrors_SentinelErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"ErrCannotSubmit", usecase.ErrCannotSubmit},
		{"ErrNotConfirmed", usecase.ErrNotConfirmed},
		{"ErrPassphraseMismatch", usecase.ErrPassphraseMismatch},
		{"ErrNotAuthorized", usecase.ErrNotAuthorized},
		{"ErrMalformedImport", usecase.ErrMalformedImport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt.Value(t, tt.err).NotNil()
		})
	}
}

func TestErrors_ErrorsAreDistinct(t *testing.T) {
	gt.Bool(t, errors.Is(usecase.ErrCannotSubmit, usecase.ErrNotConfirmed)).False()
	gt.Bool(t, errors.Is(usecase.ErrPassphraseMismatch, usecase.ErrNotAuthorized)).False()
}
