package jwt_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventario-ledger/pkg/jwt"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "biz-1", jwt.RoleBodeguero, "inventario-ledger", 5)
	require.NoError(t, err)

	id, err := jwt.Parse("secreto", "inventario-ledger", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", id.UserID)
	assert.Equal(t, "biz-1", id.BusinessID)
	assert.Equal(t, jwt.RoleBodeguero, id.Role)
}

func TestParse_Rechazos(t *testing.T) {
	token, err := jwt.Generate("secreto", "user-1", "biz-1", jwt.RoleAdmin, "inventario-ledger", 5)
	require.NoError(t, err)

	_, err = jwt.Parse("otro-secreto", "", token)
	assert.Error(t, err, "firma incorrecta")

	_, err = jwt.Parse("secreto", "otro-emisor", token)
	assert.Error(t, err, "emisor distinto")

	expired, err := jwt.Generate("secreto", "user-1", "biz-1", jwt.RoleAdmin, "", -1)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", "", expired)
	assert.Error(t, err, "token vencido")

	sinNegocio, err := jwt.Generate("secreto", "user-1", "", jwt.RoleAdmin, "", 5)
	require.NoError(t, err)
	_, err = jwt.Parse("secreto", "", sinNegocio)
	assert.Error(t, err, "sin business_id")

	_, err = jwt.Generate("", "user-1", "biz-1", jwt.RoleAdmin, "", 5)
	assert.Error(t, err)
}
