package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-inventario/pkg/jwt"
)

func TestGenerateParse_IdaYVuelta(t *testing.T) {
	tok, err := jwt.Generate("secreto", "user-1", "Cajera Ana", "pos", 5)
	require.NoError(t, err)

	claims, err := jwt.Parse("secreto", tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, "Cajera Ana", claims.Name)
	assert.Equal(t, "pos", claims.Issuer)
}

func TestParse_SecretoIncorrecto(t *testing.T) {
	tok, err := jwt.Generate("secreto", "user-1", "", "pos", 5)
	require.NoError(t, err)
	_, err = jwt.Parse("otro", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := jwt.Generate("secreto", "user-1", "", "pos", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", tok)
	assert.Error(t, err)
}

func TestGenerate_SinSecreto(t *testing.T) {
	_, err := jwt.Generate("", "user-1", "", "pos", 5)
	assert.Error(t, err)
}
