package notify

import (
	"bytes"
	"fmt"
	"html/template"

	"github.com/ariefcatur/go-shop-orders/internal/orders"
)

const itemList = `{{define "items"}}<h2>Order Details:</h2>
<ul>
{{- range .Items}}
  <li>{{.Name}} - Size: {{.Size}} - Quantity: {{.Quantity}} - ${{.Price}}</li>
{{- end}}
</ul>
<p><strong>Total: ${{.Total}}</strong></p>{{end}}`

var templates = template.Must(template.New("mail").Parse(itemList + `
{{define "` + orders.TemplateOrderConfirmed + `"}}<h1>Thank you for your order!</h1>
<p>Your order #{{.OrderID}} has been received and is being processed.</p>
{{template "items" .}}{{end}}
{{define "` + orders.TemplateNewOrder + `"}}<h1>New Order Received!</h1>
<p>Order #{{.OrderID}} has been placed by {{.CustomerEmail}}.</p>
{{template "items" .}}{{end}}
{{define "` + orders.TemplateOrderCancelled + `"}}<h1>Order Cancellation Confirmation</h1>
<p>Your order #{{.OrderID}} has been cancelled as requested.</p>
<p>If you have any questions, please contact our customer service.</p>{{end}}
{{define "` + orders.TemplateOrderCancelledSeller + `"}}<h1>Order Cancellation Notification</h1>
<p>Order #{{.OrderID}} placed by {{.CustomerEmail}} has been cancelled.</p>{{end}}
`))

var subjects = map[string]string{
	orders.TemplateOrderConfirmed:       "Order Confirmation #%d",
	orders.TemplateNewOrder:             "New Order #%d",
	orders.TemplateOrderCancelled:       "Order #%d Cancelled",
	orders.TemplateOrderCancelledSeller: "Order #%d Cancelled",
}

type line struct {
	Name     string
	Size     string
	Quantity int
	Price    string
}

type view struct {
	OrderID       int64
	CustomerEmail string
	Items         []line
	Total         string
}

func render(name string, v view) (subject, body string, err error) {
	format, ok := subjects[name]
	if !ok {
		return "", "", fmt.Errorf("unknown template %q", name)
	}
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, v); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}
	return fmt.Sprintf(format, v.OrderID), buf.String(), nil
}
