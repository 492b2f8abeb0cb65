// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"fmt"
)

// =============================================================================
// ATTACHMENT SUM TYPE
// =============================================================================

// AttachmentKind names an Attachment variant in the persisted layout.
type AttachmentKind string

const (
	KindServiceOrder     AttachmentKind = "serviceOrder"
	KindCustomer         AttachmentKind = "customer"
	KindFinancialSummary AttachmentKind = "financialSummary"
	KindInventorySummary AttachmentKind = "inventorySummary"
)

// Attachment is the structured result attached to an assistant answer.
// The set of implementations is closed: ServiceOrder, Customer,
// FinancialSummary and InventorySummary.
type Attachment interface {
	Kind() AttachmentKind
	sealed()
}

// ServiceOrder summarizes one service order (OS).
type ServiceOrder struct {
	Number       string      `json:"numeroOS"`
	CustomerName string      `json:"clienteNome"`
	Status       OrderStatus `json:"status"`
	DeviceType   string      `json:"tipoAparelho"`
	DeviceModel  string      `json:"marcaModelo"`
	BudgetValue  float64     `json:"valorOrcamento"`
}

// Customer holds the contact data of one customer.
type Customer struct {
	Name  string `json:"nome"`
	TaxID string `json:"cpf_cnpj"`
	Phone string `json:"telefone"`
	Email string `json:"email,omitempty"`
}

// FinancialSummary holds shop-wide totals.
type FinancialSummary struct {
	TotalRevenue    float64 `json:"receitas_totais"`
	DeliveredOrders int     `json:"os_entregues"`
	TotalOrders     int     `json:"total_os"`
	TotalCustomers  int     `json:"total_clientes"`
}

// InventorySummary holds the product count and the products below their
// minimum stock.
type InventorySummary struct {
	TotalProducts int            `json:"total_produtos"`
	LowStock      []LowStockItem `json:"baixo_estoque"`
}

// LowStockItem is a product whose quantity is under its minimum.
type LowStockItem struct {
	Name         string `json:"nome"`
	Quantity     int    `json:"quantidade"`
	MinimumStock int    `json:"estoqueMinimo"`
}

func (ServiceOrder) Kind() AttachmentKind     { return KindServiceOrder }
func (Customer) Kind() AttachmentKind         { return KindCustomer }
func (FinancialSummary) Kind() AttachmentKind { return KindFinancialSummary }
func (InventorySummary) Kind() AttachmentKind { return KindInventorySummary }

func (ServiceOrder) sealed()     {}
func (Customer) sealed()         {}
func (FinancialSummary) sealed() {}
func (InventorySummary) sealed() {}

// =============================================================================
// ORDER STATUS
// =============================================================================

// OrderStatus is the lifecycle code of a service order.
type OrderStatus string

const (
	StatusWaiting   OrderStatus = "aguardando"
	StatusInRepair  OrderStatus = "em_reparo"
	StatusReady     OrderStatus = "pronto"
	StatusDelivered OrderStatus = "entregue"
	StatusCancelled OrderStatus = "cancelado"
)

// =============================================================================
// ENCODING
// =============================================================================

type attachmentEnvelope struct {
	Kind    AttachmentKind  `json:"kind"`
	Payload json.RawMessage `json:"payload"`
}

// MarshalAttachment encodes a as {"kind": ..., "payload": ...}.
func MarshalAttachment(a Attachment) ([]byte, error) {
	payload, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s payload: %w", a.Kind(), err)
	}
	return json.Marshal(attachmentEnvelope{Kind: a.Kind(), Payload: payload})
}

// UnmarshalAttachment decodes an envelope written by MarshalAttachment.
// An unknown kind yields a nil Attachment and no error.
func UnmarshalAttachment(data []byte) (Attachment, error) {
	var env attachmentEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to unmarshal attachment: %w", err)
	}
	return DecodePayload(env.Kind, env.Payload)
}

// DecodePayload decodes payload as the variant named by kind. An unknown kind
// yields a nil Attachment and no error.
func DecodePayload(kind AttachmentKind, payload []byte) (Attachment, error) {
	switch kind {
	case KindServiceOrder:
		return decodeAs[ServiceOrder](kind, payload)
	case KindCustomer:
		return decodeAs[Customer](kind, payload)
	case KindFinancialSummary:
		return decodeAs[FinancialSummary](kind, payload)
	case KindInventorySummary:
		return decodeAs[InventorySummary](kind, payload)
	default:
		return nil, nil
	}
}

func decodeAs[T Attachment](kind AttachmentKind, payload []byte) (Attachment, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s payload: %w", kind, err)
	}
	return v, nil
}
