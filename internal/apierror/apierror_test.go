package apierror

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopes(t *testing.T) {
	data, err := json.Marshal(New("Erro ao criar venda", "estoque insuficiente"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Erro ao criar venda","detail":"estoque insuficiente"}`, string(data))

	v := NewValidation(map[string]string{"name": "campo obrigatório"})
	assert.Equal(t, "Erro de validação", v.Detail)
	assert.Equal(t, "campo obrigatório", v.Fields["name"])

	assert.NotContains(t, Internal().Detail, "sql")
}
