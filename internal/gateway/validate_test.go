package gateway

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shareit/internal/models"
)

func TestCheckBody(t *testing.T) {
	v := newValidator()
	name := "Ann"
	email := "ann@example.com"
	available := true

	t.Run("valid inputs pass", func(t *testing.T) {
		assert.NoError(t, checkBody(v, models.NewUser{Name: name, Email: email}))
		assert.NoError(t, checkBody(v, models.UserPatch{}))
		assert.NoError(t, checkBody(v, models.UserPatch{Name: &name, Email: &email}))
		assert.NoError(t, checkBody(v, models.NewItem{Name: "Drill", Description: "d", Available: &available}))
		assert.NoError(t, checkBody(v, models.ItemPatch{}))
	})

	t.Run("first failing field is reported by json name", func(t *testing.T) {
		err := checkBody(v, models.NewItem{Name: "Drill"})
		require.Error(t, err)
		assert.Equal(t, "description must not be blank", err.Error())
	})

	t.Run("missing email on create is blank", func(t *testing.T) {
		err := checkBody(v, models.NewUser{Name: name})
		require.Error(t, err)
		assert.Equal(t, "email must not be blank", err.Error())
	})

	t.Run("bad address echoes the value", func(t *testing.T) {
		bad := "a@"
		err := checkBody(v, models.UserPatch{Email: &bad})
		require.Error(t, err)
		assert.Equal(t, `email "a@" is not a valid address`, err.Error())
	})
}
