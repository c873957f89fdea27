package invoice

import (
	"bytes"
	"html/template"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// invoiceTemplate is the A4 invoice layout: seller block, order header,
// one row per charged line, then subtotal, optional tax and grand total.
const invoiceTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>Invoice {{.InvoiceNumber}}</title>
<style>
  body { font-family: "Helvetica Neue", Arial, sans-serif; font-size: 12px; color: #222; }
  .header { display: flex; justify-content: space-between; margin-bottom: 24px; }
  .seller h1 { font-size: 18px; margin: 0 0 4px 0; }
  .seller p { margin: 0; color: #555; }
  .meta { text-align: right; }
  .meta h2 { font-size: 16px; margin: 0 0 4px 0; }
  .meta p { margin: 0; color: #555; }
  table { width: 100%; border-collapse: collapse; margin-top: 16px; }
  th { text-align: left; border-bottom: 2px solid #222; padding: 6px 8px; }
  td { border-bottom: 1px solid #ddd; padding: 6px 8px; }
  .num { text-align: right; }
  .totals { margin-top: 16px; width: 40%; margin-left: auto; }
  .totals td { border: none; padding: 4px 8px; }
  .totals .grand td { border-top: 2px solid #222; font-weight: bold; }
</style>
</head>
<body>
  <div class="header">
    <div class="seller">
      <h1>{{.SellerName}}</h1>
      {{if .SellerAddress}}<p>{{.SellerAddress}}</p>{{end}}
      {{if .SellerEmail}}<p>{{.SellerEmail}}</p>{{end}}
    </div>
    <div class="meta">
      <h2>Invoice {{.InvoiceNumber}}</h2>
      <p>Order {{.OrderID}}</p>
      <p>Date: {{formatDate .PurchasedAt}}</p>
      {{if .BuyerName}}<p>Billed to: {{title .BuyerName}}</p>{{end}}
    </div>
  </div>

  <table>
    <thead>
      <tr>
        <th>#</th>
        <th>Product</th>
        <th class="num">Qty</th>
        <th class="num">Unit Price</th>
        <th class="num">Amount</th>
      </tr>
    </thead>
    <tbody>
      {{range $i, $line := .Lines}}
      <tr>
        <td>{{add $i 1}}</td>
        <td>{{$line.ProductName}}</td>
        <td class="num">{{$line.Quantity}}</td>
        <td class="num">{{formatMoney $line.UnitPrice}}</td>
        <td class="num">{{formatMoney $line.Amount}}</td>
      </tr>
      {{end}}
    </tbody>
  </table>

  <table class="totals">
    <tr><td>Subtotal</td><td class="num">{{formatMoney .Subtotal}}</td></tr>
    {{if .ShowTax}}<tr><td>Tax ({{formatPercent .TaxRate}})</td><td class="num">{{formatMoney .Tax}}</td></tr>{{end}}
    <tr class="grand"><td>Total</td><td class="num">{{formatMoney .GrandTotal}}</td></tr>
  </table>
</body>
</html>`

var templateFuncs = template.FuncMap{
	"formatMoney": func(d decimal.Decimal) string {
		return "₹" + d.StringFixed(2)
	},
	"formatPercent": func(rate decimal.Decimal) string {
		return rate.Mul(decimal.NewFromInt(100)).String() + "%"
	},
	"formatDate": func(t time.Time) string {
		return t.Format("02 Jan 2006")
	},
	"add": func(a, b int) int {
		return a + b
	},
	"title": cases.Title(language.English).String,
}

var parsedInvoiceTemplate = template.Must(
	template.New("invoice").Funcs(templateFuncs).Parse(invoiceTemplate))

// renderHTML executes the invoice template against the built data
func renderHTML(data *invoiceData) (string, error) {
	var buf bytes.Buffer
	if err := parsedInvoiceTemplate.Execute(&buf, data); err != nil {
		return "", NewRenderError(ErrCodeRenderFailed, "invoice template execution failed", err)
	}
	return buf.String(), nil
}
