package models

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Notification is a Mercado Pago webhook body. Delivery formats vary: the
// current webhooks send {"action":"payment.updated","data":{"id":"123"}},
// older IPN calls send {"topic":"payment","resource":"123"} or a resource URL.
type Notification struct {
	Action   string          `json:"action"`
	Type     string          `json:"type"`
	Topic    string          `json:"topic"`
	Resource json.RawMessage  `json:"resource"`
	Data     NotificationData `json:"data"`
}

type NotificationData struct {
	ID json.RawMessage `json:"id"`
}

// NotificationKind classifies a delivery.
type NotificationKind string

const (
	KindPayment       NotificationKind = "payment"
	KindMerchantOrder NotificationKind = "merchant_order"
	KindUnknown       NotificationKind = "unknown"
)

// Classify returns the kind and, for payment notifications, the payment id.
func (n Notification) Classify() (NotificationKind, string) {
	if n.Action == "payment.created" || n.Action == "payment.updated" {
		if id := scalar(n.Data.ID); id != "" {
			return KindPayment, id
		}
		return KindUnknown, ""
	}

	resource := scalar(n.Resource)
	if resource != "" && isDigits(resource) && n.Topic != "merchant_order" {
		return KindPayment, resource
	}

	switch n.Topic {
	case "payment":
		if id := lastSegment(resource); id != "" {
			return KindPayment, id
		}
	case "merchant_order":
		if resource != "" {
			return KindMerchantOrder, ""
		}
	}
	return KindUnknown, ""
}

// scalar renders a JSON string or number as a plain string.
func scalar(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&n); err == nil {
		return n.String()
	}
	return ""
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// lastSegment extracts "123" from ".../v1/payments/123".
func lastSegment(resource string) string {
	resource = strings.TrimRight(resource, "/")
	if i := strings.LastIndexByte(resource, '/'); i >= 0 {
		resource = resource[i+1:]
	}
	if i := strings.IndexByte(resource, '?'); i >= 0 {
		resource = resource[:i]
	}
	return resource
}
