package utils

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"feira_back_end/internal/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

var receiptTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"brl":     FormatBRL,
	"mul":     func(price float64, qty int) float64 { return price * float64(qty) },
	"date":    func(t time.Time) string { return t.Format("02/01/2006 15:04") },
	"payment": PaymentMethodLabel,
	"status":  getStatusLabel,
}).Parse(`<!DOCTYPE html>
<html lang="pt-BR">
<head>
<meta charset="UTF-8">
<style>
  body { font-family: Arial, sans-serif; color: #333; margin: 40px; }
  h1 { color: #2e7d32; margin-bottom: 0; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { padding: 8px; border-bottom: 1px solid #ddd; text-align: left; }
  td.num, th.num { text-align: right; }
  .total { font-size: 18px; font-weight: bold; text-align: right; margin-top: 16px; }
  .pix { margin-top: 32px; text-align: center; }
</style>
</head>
<body>
  <h1>🌱 Feira</h1>
  <p>Comprovante do pedido <strong>#{{.Order.ID}}</strong></p>
  <p>
    Data: {{date .Order.CreatedAt}}<br>
    {{if .Order.ConsumerName}}Cliente: {{.Order.ConsumerName}}<br>{{end}}
    Entrega: {{.Order.DeliveryAddress.String}}<br>
    Pagamento: {{payment .Order.PaymentMethod}}<br>
    Status: {{status .Order.Status}}
  </p>
  <table>
    <thead><tr><th>Produto</th><th class="num">Qtd</th><th class="num">Preço</th><th class="num">Subtotal</th></tr></thead>
    <tbody>
    {{range .Order.Items}}<tr>
      <td>{{.ProductName}}</td>
      <td class="num">{{.Quantity}}</td>
      <td class="num">{{brl .PriceAtPurchase}}</td>
      <td class="num">{{brl (mul .PriceAtPurchase .Quantity)}}</td>
    </tr>{{end}}
    </tbody>
  </table>
  <p class="total">Total: {{brl .Order.TotalPrice}}</p>
  {{if .PixQR}}<div class="pix">
    <p>Pague com PIX</p>
    <img src="{{.PixQR}}" width="200" height="200" alt="QR Code PIX">
  </div>{{end}}
</body>
</html>`))

// ReceiptHTML monta o comprovante. pixPNG pode ser nil.
func ReceiptHTML(o models.Order, pixPNG []byte) (string, error) {
	data := struct {
		Order models.Order
		PixQR template.URL
	}{Order: o}
	if len(pixPNG) > 0 {
		data.PixQR = template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(pixPNG))
	}

	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderPDF imprime o HTML em PDF num Chrome headless.
func RenderPDF(ctx context.Context, html string) ([]byte, error) {
	allocCtx, cancel := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancel()

	ctx, cancel = chromedp.NewContext(allocCtx)
	defer cancel()

	// timeout para não travar a requisição
	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).
				WithPaperHeight(11.69).
				Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("geração do PDF: %w", err)
	}
	return pdfBuf, nil
}

// ReceiptPDF junta ReceiptHTML e RenderPDF.
func ReceiptPDF(ctx context.Context, o models.Order, pixPNG []byte) ([]byte, error) {
	html, err := ReceiptHTML(o, pixPNG)
	if err != nil {
		return nil, err
	}
	return RenderPDF(ctx, html)
}
