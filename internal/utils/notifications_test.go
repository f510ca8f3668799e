package utils

import (
	"context"
	"testing"

	"feira_back_end/internal/config"
	"feira_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() models.Order {
	return models.Order{
		ID:            "o1",
		ConsumerName:  "Ana",
		TotalPrice:    9,
		PaymentMethod: models.PaymentPix,
		Status:        models.OrderStatusAccepted,
		DeliveryAddress: models.DeliveryAddress{
			Street: "Rua A", Number: "10", Neighborhood: "Centro", City: "Campinas", State: "SP", ZipCode: "13000-000",
		},
		Items: []models.OrderItem{
			{ProductName: "Tomate <orgânico>", Quantity: 2, PriceAtPurchase: 3.5},
			{ProductName: "Alface", Quantity: 1, PriceAtPurchase: 2},
		},
	}
}

func TestFormatBRL(t *testing.T) {
	tests := map[float64]string{
		0:       "R$ 0,00",
		3.5:     "R$ 3,50",
		9:       "R$ 9,00",
		1234.5:  "R$ 1.234,50",
		1e6:     "R$ 1.000.000,00",
		-12.5:   "-R$ 12,50",
	}
	for in, want := range tests {
		assert.Equal(t, want, FormatBRL(in), in)
	}
}

func TestNewOrderEmailHTML(t *testing.T) {
	html, err := NewOrderEmailHTML(sampleOrder())
	require.NoError(t, err)

	assert.Contains(t, html, "Ana fez um novo pedido")
	assert.Contains(t, html, "R$ 7,00")
	assert.Contains(t, html, "R$ 9,00")
	assert.Contains(t, html, "PIX")
	assert.Contains(t, html, "Tomate &lt;orgânico&gt;")
	assert.NotContains(t, html, "<orgânico>")
}

func TestStatusEmailHTML(t *testing.T) {
	o := sampleOrder()
	html, err := StatusEmailHTML(o)
	require.NoError(t, err)
	assert.Contains(t, html, "Aceito")
	assert.Contains(t, html, "#2e7d32")

	o.Status = models.OrderStatusRejected
	html, err = StatusEmailHTML(o)
	require.NoError(t, err)
	assert.Contains(t, html, "Recusado")
	assert.Equal(t, "❌ Pedido recusado - Feira", getStatusSubject(o.Status))
}

func TestMailerWithoutSMTPDropsMessage(t *testing.T) {
	m := NewMailer(config.Config{MailFrom: "nao-responda@feira.app"})
	assert.False(t, m.Enabled())
	assert.NoError(t, m.NotifyNewOrder(context.Background(), "agricultor@feira.app", sampleOrder()))
}

func TestMailerRejectsInvalidAddress(t *testing.T) {
	m := NewMailer(config.Config{MailFrom: "nao-responda@feira.app"})
	assert.Error(t, m.Send(context.Background(), "not an email", "x", "<p>x</p>"))
}
