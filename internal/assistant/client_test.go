// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package assistant

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iasistem/assistant/internal/api"
	"github.com/iasistem/assistant/internal/model"
)

func newTestClient(t *testing.T, status int, body string) (*Client, *string) {
	t.Helper()
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, QueryPath, r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var req map[string]string
		json.NewDecoder(r.Body).Decode(&req)
		gotQuery = req["consulta"]

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	apiClient := api.NewClient(srv.URL, api.WithTokenSource(api.TokenFunc(func() (string, error) {
		return "tok", nil
	})))
	return NewClient(apiClient, zerolog.Nop()), &gotQuery
}

func TestQuery_AttachmentVariants(t *testing.T) {
	tests := []struct {
		name string
		body string
		want model.Attachment
	}{
		{
			name: "service order",
			body: `{"resposta":"A OS005 está pronta.","dados":{"tipo":"os","dados":{"numeroOS":"#OS0005","clienteNome":"Maria","status":"pronto","tipoAparelho":"Celular","marcaModelo":"Moto G","valorOrcamento":150.0,"clienteId":3}}}`,
			want: model.ServiceOrder{Number: "#OS0005", CustomerName: "Maria", Status: model.StatusReady, DeviceType: "Celular", DeviceModel: "Moto G", BudgetValue: 150},
		},
		{
			name: "customer",
			body: `{"resposta":"ok","dados":{"tipo":"cliente","dados":{"nome":"João Silva","cpf_cnpj":"123","telefone":"999"},"os_relacionadas":[]}}`,
			want: model.Customer{Name: "João Silva", TaxID: "123", Phone: "999"},
		},
		{
			name: "finance",
			body: `{"resposta":"ok","dados":{"tipo":"financeiro","dados":{"receitas_totais":1234.5,"os_entregues":3,"total_os":9,"total_clientes":4}}}`,
			want: model.FinancialSummary{TotalRevenue: 1234.5, DeliveredOrders: 3, TotalOrders: 9, TotalCustomers: 4},
		},
		{
			name: "inventory",
			body: `{"resposta":"ok","dados":{"tipo":"produtos","dados":{"total_produtos":2,"baixo_estoque":[{"nome":"Tela","quantidade":1,"estoqueMinimo":5}],"todos_produtos":[]}}}`,
			want: model.InventorySummary{TotalProducts: 2, LowStock: []model.LowStockItem{{Name: "Tela", Quantity: 1, MinimumStock: 5}}},
		},
		{
			name: "not found",
			body: `{"resposta":"Não encontrei.","dados":{"tipo":"nao_encontrado","dados":{}}}`,
		},
		{
			name: "empty data",
			body: `{"resposta":"Desculpe","dados":{}}`,
		},
		{
			name: "null data",
			body: `{"resposta":"ok","dados":null}`,
		},
		{
			name: "malformed payload",
			body: `{"resposta":"ok","dados":{"tipo":"os","dados":"OS005"}}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, http.StatusOK, tt.body)

			reply, err := client.Query(context.Background(), "pergunta")
			require.NoError(t, err)
			assert.NotEmpty(t, reply.Text)
			assert.Equal(t, tt.want, reply.Attachment)
		})
	}
}

func TestQuery_SendsTrimmedQuestion(t *testing.T) {
	client, got := newTestClient(t, http.StatusOK, `{"resposta":"ok"}`)

	_, err := client.Query(context.Background(), "  status da OS005 \n")
	require.NoError(t, err)
	assert.Equal(t, "status da OS005", *got)
}

func TestQuery_Empty(t *testing.T) {
	client, _ := newTestClient(t, http.StatusOK, `{}`)
	_, err := client.Query(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuery)
}

func TestQuery_BackendError(t *testing.T) {
	client, _ := newTestClient(t, http.StatusInternalServerError, `{"erro":"falha na IA"}`)

	_, err := client.Query(context.Background(), "oi")
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, api.StatusCode(err))
	assert.Equal(t, "falha na IA", err.Error())
}
