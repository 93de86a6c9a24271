package orders

import (
	"strings"

	"github.com/ujaasaroma/Admin.UjaasAroma/internal/docstore"
	"github.com/ujaasaroma/Admin.UjaasAroma/internal/liststate"
)

// Collection holds completed checkouts; the document id is the order number.
const Collection = "successOrders"

const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusProcessing, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type Payment struct {
	Status string `json:"status"`
}

type Order struct {
	ID         string       `json:"id"` // order number
	Customer   CustomerInfo `json:"customerInfo"`
	Total      float64      `json:"total"`
	Payment    Payment      `json:"payment"`
	Status     string       `json:"status"`
	OrderDate  string       `json:"orderDate"`
	InvoiceURL string       `json:"invoiceUrl"`
}

func (o Order) RecordID() string { return o.ID }

func (o Order) Delivered() bool { return o.Status == StatusDelivered }

func Decode(d docstore.Document) Order {
	return Order{
		ID: d.ID,
		Customer: CustomerInfo{
			Name:  d.Str("customerInfo.name", "N/A"),
			Email: d.Str("customerInfo.email", "N/A"),
			Phone: d.Str("customerInfo.phone", "-"),
		},
		Total:      d.Num("total"),
		Payment:    Payment{Status: d.Str("payment.status", "N/A")},
		Status:     d.Str("status", StatusPending),
		OrderDate:  d.Str("orderDate", docstore.FormatTime(d.CreatedAt)),
		InvoiceURL: d.Str("invoiceUrl", ""),
	}
}

// Projection: the orders screen filters by the status tabs and searches over
// order number and customer fields; the store order (newest first) is kept.
func Projection() liststate.Projection[Order] {
	byStatus := func(status string) func(Order) bool {
		return func(o Order) bool { return strings.EqualFold(o.Status, status) }
	}
	return liststate.Projection[Order]{
		SearchText: func(o Order) []string {
			return []string{o.ID, o.Customer.Name, o.Customer.Email, o.Customer.Phone}
		},
		Filters: map[string]func(Order) bool{
			StatusPending:    byStatus(StatusPending),
			StatusProcessing: byStatus(StatusProcessing),
			StatusDelivered:  byStatus(StatusDelivered),
			StatusCancelled:  byStatus(StatusCancelled),
		},
		Sorts: map[string]func(a, b Order) bool{},
	}
}
