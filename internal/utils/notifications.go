package utils

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"strings"

	"feira_back_end/internal/models"
)

var emailTemplates = template.Must(template.New("email").Funcs(template.FuncMap{
	"brl": FormatBRL,
	"mul": func(price float64, qty int) float64 { return price * float64(qty) },
}).Parse(`
{{define "layout"}}<!DOCTYPE html>
<html lang="pt-BR">
<head><meta charset="UTF-8"><title>{{.Title}}</title></head>
<body style="margin: 0; padding: 20px; font-family: Arial, sans-serif; background-color: #f5f5f5;">
  <div style="max-width: 600px; margin: auto; background-color: #ffffff; border-radius: 12px; overflow: hidden;">
    <div style="background-color: #2e7d32; padding: 30px; text-align: center; color: #ffffff;">
      <h1 style="margin: 0; font-size: 26px;">🌱 Feira</h1>
      <p style="margin: 8px 0 0 0;">{{.Title}}</p>
    </div>
    <div style="padding: 30px; color: #333333;">
      {{if .Badge}}<p style="text-align: center;"><span style="display: inline-block; padding: 10px 20px; background-color: {{.Color}}; color: #ffffff; border-radius: 20px; font-weight: 600;">{{.Badge}}</span></p>{{end}}
      <p style="font-size: 16px; line-height: 1.6;">{{.Message}}</p>
      {{template "order" .Order}}
    </div>
  </div>
</body>
</html>{{end}}

{{define "order"}}<table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
  <thead>
    <tr style="background-color: #f0f0f0;">
      <th style="padding: 8px; text-align: left;">Produto</th>
      <th style="padding: 8px; text-align: right;">Qtd</th>
      <th style="padding: 8px; text-align: right;">Subtotal</th>
    </tr>
  </thead>
  <tbody>
    {{range .Items}}<tr>
      <td style="padding: 8px; border-top: 1px solid #eee;">{{.ProductName}}</td>
      <td style="padding: 8px; border-top: 1px solid #eee; text-align: right;">{{.Quantity}}</td>
      <td style="padding: 8px; border-top: 1px solid #eee; text-align: right;">{{brl (mul .PriceAtPurchase .Quantity)}}</td>
    </tr>{{end}}
  </tbody>
  <tfoot>
    <tr><td colspan="2" style="padding: 8px; text-align: right; font-weight: bold;">Total:</td>
    <td style="padding: 8px; text-align: right; font-weight: bold;">{{brl .TotalPrice}}</td></tr>
  </tfoot>
</table>
<p style="color: #666666; font-size: 14px;">Pedido #{{.ID}}<br>Entrega: {{.DeliveryAddress.String}}</p>{{end}}
`))

type emailData struct {
	Title   string
	Badge   string
	Color   string
	Message string
	Order   models.Order
}

func renderEmail(data emailData) (string, error) {
	var buf bytes.Buffer
	if err := emailTemplates.ExecuteTemplate(&buf, "layout", data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// NewOrderEmailHTML é o aviso ao agricultor de um pedido recebido.
func NewOrderEmailHTML(o models.Order) (string, error) {
	msg := "Você recebeu um novo pedido. Abra o app para aceitar ou recusar."
	if o.ConsumerName != "" {
		msg = fmt.Sprintf("%s fez um novo pedido. Abra o app para aceitar ou recusar.", o.ConsumerName)
	}
	return renderEmail(emailData{
		Title:   "Novo pedido recebido",
		Badge:   "🧺 " + PaymentMethodLabel(o.PaymentMethod),
		Color:   "#f9a825",
		Message: msg,
		Order:   o,
	})
}

// StatusEmailHTML é o aviso ao consumidor da decisão do agricultor.
func StatusEmailHTML(o models.Order) (string, error) {
	return renderEmail(emailData{
		Title:   "Atualização do seu pedido",
		Badge:   getStatusIcon(o.Status) + " " + getStatusLabel(o.Status),
		Color:   getStatusColor(o.Status),
		Message: getStatusMessage(o.Status),
		Order:   o,
	})
}

func getStatusSubject(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusAccepted:
		return "✅ Pedido aceito - Feira"
	case models.OrderStatusRejected:
		return "❌ Pedido recusado - Feira"
	default:
		return "📋 Atualização do seu pedido - Feira"
	}
}

func getStatusIcon(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusAccepted:
		return "✅"
	case models.OrderStatusRejected:
		return "❌"
	default:
		return "⏳"
	}
}

func getStatusLabel(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusAccepted:
		return "Aceito"
	case models.OrderStatusRejected:
		return "Recusado"
	default:
		return "Pendente"
	}
}

func getStatusColor(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusAccepted:
		return "#2e7d32"
	case models.OrderStatusRejected:
		return "#c62828"
	default:
		return "#f9a825"
	}
}

func getStatusMessage(status models.OrderStatus) string {
	switch status {
	case models.OrderStatusAccepted:
		return "Boa notícia! O agricultor aceitou o seu pedido e já está separando os produtos."
	case models.OrderStatusRejected:
		return "Infelizmente o agricultor não pôde atender o seu pedido desta vez."
	default:
		return "O seu pedido está aguardando a resposta do agricultor."
	}
}

// PaymentMethodLabel devolve o nome da forma de pagamento como aparece no app.
func PaymentMethodLabel(m models.PaymentMethod) string {
	switch m {
	case models.PaymentCreditCard:
		return "Cartão de crédito"
	case models.PaymentPix:
		return "PIX"
	case models.PaymentMealVoucher:
		return "Vale refeição"
	case models.PaymentMarketVoucher:
		return "Vale alimentação"
	}
	return string(m)
}

// FormatBRL formata em reais: 1234.5 → "R$ 1.234,50".
func FormatBRL(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	s := fmt.Sprintf("%.2f", v)
	intPart, frac := s[:len(s)-3], s[len(s)-2:]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// --- Envio ---

func (m *Mailer) NotifyNewOrder(ctx context.Context, to string, o models.Order) error {
	html, err := NewOrderEmailHTML(o)
	if err != nil {
		return err
	}
	if err := m.Send(ctx, to, "🧺 Novo pedido recebido - Feira", html); err != nil {
		log.Printf("❌ Erro ao enviar email de novo pedido: %v", err)
		return err
	}
	log.Printf("📧 Email de novo pedido enviado: %s → %s", o.ID, to)
	return nil
}

func (m *Mailer) NotifyStatusChanged(ctx context.Context, to string, o models.Order) error {
	html, err := StatusEmailHTML(o)
	if err != nil {
		return err
	}
	if err := m.Send(ctx, to, getStatusSubject(o.Status), html); err != nil {
		log.Printf("❌ Erro ao enviar email de status: %v", err)
		return err
	}
	log.Printf("📧 Email de status enviado: %s → %s", o.Status, to)
	return nil
}
