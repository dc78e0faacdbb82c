package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPrincipalKindValid(t *testing.T) {
	assert.True(t, KindMentee.Valid())
	assert.True(t, KindMentor.Valid())
	assert.False(t, PrincipalKind("admin").Valid())
	assert.False(t, PrincipalKind("").Valid())
}

func TestCookieName(t *testing.T) {
	assert.Equal(t, "mentee_session", KindMentee.CookieName())
	assert.Equal(t, "mentor_session", KindMentor.CookieName())
}
