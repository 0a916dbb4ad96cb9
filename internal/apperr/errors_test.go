package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKinds(t *testing.T) {
	cause := errors.New("disk full")

	tests := []struct {
		name string
		err  error
		is   func(error) bool
		kind Kind
	}{
		{"validation", Validation("El nombre es obligatorio."), IsValidation, KindValidation},
		{"storage", Storage("insert", cause), IsStorage, KindStorage},
		{"invalid input", InvalidInput("pdf", "no record selected"), IsInvalidInput, KindInvalidInput},
		{"render", Render("write pdf", cause), IsRender, KindRender},
		{"backup", Backup("upload", cause), IsBackup, KindBackup},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.is(tt.err))
			assert.Equal(t, tt.kind, KindOf(tt.err))

			wrapped := fmt.Errorf("action: %w", tt.err)
			assert.True(t, tt.is(wrapped), "predicate must see through wrapping")
		})
	}
}

func TestPredicatesAreExclusive(t *testing.T) {
	err := Storage("delete", errors.New("locked"))
	assert.False(t, IsValidation(err))
	assert.False(t, IsRender(err))
	assert.False(t, IsStorage(errors.New("plain")))
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Render("write pdf", cause)
	assert.ErrorIs(t, err, cause)
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "VALIDATION: bad dni", Validation("bad dni").Error())
	assert.Equal(t, "INVALID_INPUT: update: no record", InvalidInput("update", "no record").Error())
	assert.Equal(t, "STORAGE: insert: storage failure: boom", Storage("insert", errors.New("boom")).Error())
	assert.Equal(t, "BACKUP: unavailable", (&Error{Kind: KindBackup, Message: "unavailable"}).Error())
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "bad dni", MessageOf(fmt.Errorf("save: %w", Validation("bad dni"))))
	assert.Equal(t, "plain", MessageOf(errors.New("plain")))
	assert.Equal(t, "", MessageOf(nil))
}
