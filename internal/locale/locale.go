// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package locale holds the user-facing text and date formats of the assistant.
//
// Brazilian Portuguese is the product language and the fallback for any tag
// that does not match; English is provided for development and support.
package locale

import (
	"fmt"
	"time"

	"golang.org/x/text/language"
)

// Locale is a fixed table of labels and formatting rules for one language.
type Locale struct {
	Tag language.Tag

	// Conversation labels
	Greeting         string
	NewConversation  string
	Yesterday        string
	AssistantName    string
	UserName         string
	Loading          string
	Apology          string
	ConfirmClear     string
	HistoryEmpty     string
	HistoryEmptyHint string
	NotInformed      string

	// Interactive front end labels
	HistoryTitle     string
	InputPlaceholder string
	ConfirmHint      string
	ShortcutSend     string
	ShortcutNew      string
	ShortcutHistory  string
	ShortcutClear    string
	ShortcutQuit     string

	// Weekday abbreviations indexed by time.Weekday
	Weekdays [7]string

	// Preview block titles and field labels
	OrderTitle        string
	CustomerTitle     string
	FinanceTitle      string
	InventoryTitle    string
	LabelCustomer     string
	LabelStatus       string
	LabelDevice       string
	LabelValue        string
	LabelTaxID        string
	LabelPhone        string
	LabelEmail        string
	LabelRevenue      string
	LabelDelivered    string
	LabelTotalOrders  string
	LabelCustomers    string
	LabelProducts     string
	LabelLowStock     string
	LowStockListTitle string
	ProductsUnit      string
	UnitsUnit         string

	// StatusLabels maps service order status codes to display labels.
	StatusLabels map[string]string

	CurrencySymbol string

	clock    string
	dayMonth string
}

// PTBR is the default locale.
var PTBR = &Locale{
	Tag: language.BrazilianPortuguese,

	Greeting: "Olá! Sou seu assistente inteligente. Posso ajudar você a consultar informações sobre:\n\n" +
		"• Ordens de Serviço: \"cliente da OS005\", \"status da OS010\", \"OS concluídas hoje\"\n" +
		"• Clientes: \"dados do João Silva\", \"telefone do cliente X\"\n" +
		"• Financeiro: \"receitas do mês\", \"total de vendas\"\n" +
		"• Estoque: \"produtos com pouco estoque\", \"quantidade do produto Y\"\n\n" +
		"O que você gostaria de saber?",
	NewConversation:  "Nova conversa",
	Yesterday:        "Ontem",
	AssistantName:    "Assistente IA",
	UserName:         "Você",
	Loading:          "Processando sua consulta...",
	Apology:          "Desculpe, houve um erro ao processar sua consulta. Tente novamente ou reformule sua pergunta.",
	ConfirmClear:     "Tem certeza que deseja limpar todo o histórico de conversas? Esta ação não pode ser desfeita.",
	HistoryEmpty:     "Nenhuma conversa ainda",
	HistoryEmptyHint: "Comece uma nova conversa para ver o histórico aqui",
	NotInformed:      "Não informado",

	HistoryTitle:     "Histórico",
	InputPlaceholder: "Digite sua pergunta...",
	ConfirmHint:      "y = sim · n = não",
	ShortcutSend:     "enviar",
	ShortcutNew:      "nova conversa",
	ShortcutHistory:  "histórico",
	ShortcutClear:    "limpar",
	ShortcutQuit:     "sair",

	Weekdays: [7]string{"dom.", "seg.", "ter.", "qua.", "qui.", "sex.", "sáb."},

	OrderTitle:        "Ordem de Serviço",
	CustomerTitle:     "Cliente:",
	FinanceTitle:      "Dados Financeiros",
	InventoryTitle:    "Estoque",
	LabelCustomer:     "Cliente",
	LabelStatus:       "Status",
	LabelDevice:       "Aparelho",
	LabelValue:        "Valor",
	LabelTaxID:        "CPF/CNPJ",
	LabelPhone:        "Telefone",
	LabelEmail:        "Email",
	LabelRevenue:      "Receitas Totais",
	LabelDelivered:    "OS Entregues",
	LabelTotalOrders:  "Total de OS",
	LabelCustomers:    "Total de Clientes",
	LabelProducts:     "Total de Produtos",
	LabelLowStock:     "Com Estoque Baixo",
	LowStockListTitle: "Produtos com estoque baixo:",
	ProductsUnit:      "produtos",
	UnitsUnit:         "unidades",

	StatusLabels: map[string]string{
		"aguardando": "Aguardando",
		"em_reparo":  "Em Reparo",
		"pronto":     "Pronto",
		"entregue":   "Entregue",
		"cancelado":  "Cancelado",
	},

	CurrencySymbol: "R$",

	clock:    "15:04",
	dayMonth: "02/01",
}

// EN is used when the configured locale matches English.
var EN = &Locale{
	Tag: language.AmericanEnglish,

	Greeting: "Hi! I'm your smart assistant. I can help you look up:\n\n" +
		"• Service orders: \"customer of OS005\", \"status of OS010\"\n" +
		"• Customers: \"details for João Silva\", \"phone of customer X\"\n" +
		"• Finance: \"revenue this month\", \"total sales\"\n" +
		"• Inventory: \"low stock products\", \"quantity of product Y\"\n\n" +
		"What would you like to know?",
	NewConversation:  "New conversation",
	Yesterday:        "Yesterday",
	AssistantName:    "AI Assistant",
	UserName:         "You",
	Loading:          "Processing your query...",
	Apology:          "Sorry, something went wrong while processing your query. Try again or rephrase your question.",
	ConfirmClear:     "Are you sure you want to clear the whole conversation history? This cannot be undone.",
	HistoryEmpty:     "No conversations yet",
	HistoryEmptyHint: "Start a new conversation to see it here",
	NotInformed:      "Not provided",

	HistoryTitle:     "History",
	InputPlaceholder: "Type your question...",
	ConfirmHint:      "y = yes · n = no",
	ShortcutSend:     "send",
	ShortcutNew:      "new chat",
	ShortcutHistory:  "history",
	ShortcutClear:    "clear",
	ShortcutQuit:     "quit",

	Weekdays: [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"},

	OrderTitle:        "Service Order",
	CustomerTitle:     "Customer:",
	FinanceTitle:      "Financial Data",
	InventoryTitle:    "Inventory",
	LabelCustomer:     "Customer",
	LabelStatus:       "Status",
	LabelDevice:       "Device",
	LabelValue:        "Value",
	LabelTaxID:        "Tax ID",
	LabelPhone:        "Phone",
	LabelEmail:        "Email",
	LabelRevenue:      "Total Revenue",
	LabelDelivered:    "Delivered Orders",
	LabelTotalOrders:  "Total Orders",
	LabelCustomers:    "Total Customers",
	LabelProducts:     "Total Products",
	LabelLowStock:     "Low Stock",
	LowStockListTitle: "Low stock products:",
	ProductsUnit:      "products",
	UnitsUnit:         "units",

	StatusLabels: map[string]string{
		"aguardando": "Waiting",
		"em_reparo":  "In Repair",
		"pronto":     "Ready",
		"entregue":   "Delivered",
		"cancelado":  "Cancelled",
	},

	CurrencySymbol: "R$",

	clock:    "03:04 PM",
	dayMonth: "01/02",
}

var (
	supported = []*Locale{PTBR, EN}
	matcher   = language.NewMatcher([]language.Tag{PTBR.Tag, EN.Tag})
)

// Match returns the supported locale closest to tag (for example "pt-BR",
// "pt", "en-GB"). Empty or unparseable tags yield PTBR.
func Match(tag string) *Locale {
	if tag == "" {
		return PTBR
	}
	parsed, err := language.Parse(tag)
	if err != nil {
		return PTBR
	}
	_, index, confidence := matcher.Match(parsed)
	if confidence == language.No {
		return PTBR
	}
	return supported[index]
}

// Clock formats the hour and minute of t, e.g. "14:05".
func (l *Locale) Clock(t time.Time) string {
	return t.Format(l.clock)
}

// Weekday returns the abbreviated weekday name of t.
func (l *Locale) Weekday(t time.Time) string {
	return l.Weekdays[t.Weekday()]
}

// DayMonth formats the day and month of t, e.g. "19/10".
func (l *Locale) DayMonth(t time.Time) string {
	return t.Format(l.dayMonth)
}

// Currency formats v with two fixed decimals, e.g. "R$ 150.00".
func (l *Locale) Currency(v float64) string {
	return fmt.Sprintf("%s %.2f", l.CurrencySymbol, v)
}

// StatusLabel returns the display label of a service order status code, or
// the code itself when it is not one of the known statuses.
func (l *Locale) StatusLabel(code string) string {
	if label, ok := l.StatusLabels[code]; ok {
		return label
	}
	return code
}
