package email

import (
	"bytes"
	"fmt"
	"html/template"
)

// TemplateManager renders the per-event HTML bodies. Email bodies are
// richer than their push counterparts: orders carry a line-item table,
// low-stock mails a product list, messages the full untruncated preview.
type TemplateManager struct {
	templates map[string]*template.Template
}

// OrderLineItem is one row of an order receipt table.
type OrderLineItem struct {
	Name     string
	Quantity int
	Price    string
}

type NewOrderData struct {
	OrderRef string // short order reference, e.g. "a1b2c3d4"
	Amount   string // formatted with currency, e.g. "₵45.00"
	Items    []OrderLineItem
	StoreURL string
}

type OrderStatusData struct {
	OrderRef   string
	Status     string
	StatusLine string // same body text the push channel uses
}

type NewMessageData struct {
	SenderName     string
	MessagePreview string // full content, never truncated
	ThreadURL      string
}

// LowStockItem labels one product: "Out of Stock" or "<n> left".
type LowStockItem struct {
	Name  string
	Label string
}

type LowStockData struct {
	StoreName string
	Products  []LowStockItem
}

type GenericData struct {
	Title   string
	Message string
}

func NewTemplateManager() (*TemplateManager, error) {
	tm := &TemplateManager{
		templates: make(map[string]*template.Template),
	}

	builtin := map[string]string{
		"new_order":    newOrderTemplate,
		"order_status": orderStatusTemplate,
		"new_message":  newMessageTemplate,
		"low_stock":    lowStockTemplate,
		"generic":      genericTemplate,
	}

	for name, text := range builtin {
		tpl, err := template.New(name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		tm.templates[name] = tpl
	}

	return tm, nil
}

func (tm *TemplateManager) Render(templateName string, data interface{}) (string, error) {
	tpl, exists := tm.templates[templateName]
	if !exists {
		return "", fmt.Errorf("template not found: %s", templateName)
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", templateName, err)
	}

	return buf.String(), nil
}

const (
	newOrderTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Order Received</title>
</head>
<body>
    <h2>🎉 New Order Received!</h2>
    <p>You have a new order <strong>#{{.OrderRef}}</strong> totalling <strong>{{.Amount}}</strong>.</p>
    {{if .Items}}
    <table style="border-collapse: collapse; width: 100%;">
        <tr style="background-color: #f8f9fa;">
            <th style="text-align: left; padding: 8px;">Item</th>
            <th style="text-align: right; padding: 8px;">Qty</th>
            <th style="text-align: right; padding: 8px;">Price</th>
        </tr>
        {{range .Items}}
        <tr>
            <td style="padding: 8px;">{{.Name}}</td>
            <td style="text-align: right; padding: 8px;">{{.Quantity}}</td>
            <td style="text-align: right; padding: 8px;">{{.Price}}</td>
        </tr>
        {{end}}
    </table>
    {{end}}
    {{if .StoreURL}}
    <a href="{{.StoreURL}}" style="background-color: #007bff; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">View Order</a>
    {{end}}
    <p>UniPlug — your campus marketplace</p>
</body>
</html>`

	orderStatusTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Order Update</title>
</head>
<body>
    <h2>Order Update</h2>
    <p>Order <strong>#{{.OrderRef}}</strong> status: <strong>{{.Status}}</strong></p>
    <p>{{.StatusLine}}</p>
    <p>UniPlug — your campus marketplace</p>
</body>
</html>`

	newMessageTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>New Message</title>
</head>
<body>
    <h2>💬 New message from {{.SenderName}}</h2>
    <div style="background-color: #f8f9fa; padding: 15px; border-radius: 5px;">
        <p>{{.MessagePreview}}</p>
    </div>
    {{if .ThreadURL}}
    <a href="{{.ThreadURL}}" style="background-color: #28a745; color: white; padding: 10px 20px; text-decoration: none; border-radius: 5px;">Reply</a>
    {{end}}
</body>
</html>`

	lowStockTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Low Stock Alert</title>
</head>
<body>
    <h2>⚠️ Low Stock Alert</h2>
    {{if .StoreName}}<p>Some products in <strong>{{.StoreName}}</strong> are running low:</p>{{end}}
    <ul>
        {{range .Products}}
        <li><strong>{{.Name}}</strong> — {{.Label}}</li>
        {{end}}
    </ul>
    <p>Restock soon to keep your store active.</p>
    <p>UniPlug — your campus marketplace</p>
</body>
</html>`

	genericTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}}</title>
</head>
<body>
    <h2>{{.Title}}</h2>
    <p>{{.Message}}</p>
    <p>UniPlug — your campus marketplace</p>
</body>
</html>`
)
