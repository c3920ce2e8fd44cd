package models

import (
	"encoding/json"
	"slices"
	"testing"
	"time"
)

func TestOrderStatus_NextStatuses(t *testing.T) {
	tests := []struct {
		from OrderStatus
		want []OrderStatus
	}{
		{OrderPending, []OrderStatus{OrderValidated, OrderPreparing}},
		{OrderValidated, []OrderStatus{OrderPreparing, OrderShipped}},
		{OrderPreparing, []OrderStatus{OrderShipped}},
		{OrderShipped, []OrderStatus{OrderDelivered}},
		{OrderDelivered, []OrderStatus{}},
		{OrderCancelled, []OrderStatus{}},
	}
	for _, tt := range tests {
		t.Run(string(tt.from), func(t *testing.T) {
			got := tt.from.NextStatuses()
			if !slices.Equal(got, tt.want) {
				t.Fatalf("NextStatuses() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOrderStatus_EditorNeverOffersCurrentOrCancelled(t *testing.T) {
	for _, s := range OrderStatuses {
		for _, n := range s.NextStatuses() {
			if n == s {
				t.Fatalf("%s offers itself", s)
			}
			if n == OrderCancelled {
				t.Fatalf("%s offers ANNULEE through the generic editor", s)
			}
		}
	}
}

func TestOrderStatus_ShippedAndDeliveredReachability(t *testing.T) {
	for _, s := range OrderStatuses {
		if s.CanTransitionTo(OrderShipped) && s != OrderValidated && s != OrderPreparing {
			t.Fatalf("EXPEDIEE reachable from %s", s)
		}
		if s.CanTransitionTo(OrderDelivered) && s != OrderShipped {
			t.Fatalf("LIVREE reachable from %s", s)
		}
	}
	if OrderPending.CanTransitionTo(OrderShipped) {
		t.Fatalf("EXPEDIEE must not be offered from EN_ATTENTE")
	}
}

func TestOrderStatus_CanCancel(t *testing.T) {
	for _, s := range OrderStatuses {
		want := s != OrderDelivered && s != OrderCancelled
		if got := s.CanCancel(); got != want {
			t.Errorf("%s.CanCancel() = %v, want %v", s, got, want)
		}
	}
	if OrderStatus("BOGUS").CanCancel() {
		t.Fatalf("unknown status must not be cancellable")
	}
}

func TestParseOrderStatus(t *testing.T) {
	if s, err := ParseOrderStatus("VALIDEE"); err != nil || s != OrderValidated {
		t.Fatalf("ParseOrderStatus(VALIDEE) = %v, %v", s, err)
	}
	if _, err := ParseOrderStatus("validee"); err == nil {
		t.Fatalf("expected error for lowercase value")
	}
}

func TestDeliveryStatus_NextStatuses(t *testing.T) {
	got := DeliveryPending.NextStatuses()
	want := []DeliveryStatus{DeliveryInProgress, DeliveryDelivered, DeliveryDelayed}
	if !slices.Equal(got, want) {
		t.Fatalf("NextStatuses() = %v, want %v", got, want)
	}
	got = DeliveryDelayed.NextStatuses()
	want = []DeliveryStatus{DeliveryPending, DeliveryInProgress, DeliveryDelivered}
	if !slices.Equal(got, want) {
		t.Fatalf("NextStatuses() = %v, want %v", got, want)
	}
	for _, s := range []DeliveryStatus{DeliveryDelivered, DeliveryCancelled} {
		if len(s.NextStatuses()) != 0 {
			t.Fatalf("%s is terminal and must offer nothing", s)
		}
		if s.CanModify() {
			t.Fatalf("%s must not be modifiable", s)
		}
	}
	if !DeliveryInProgress.CanModify() {
		t.Fatalf("EN_COURS should be modifiable")
	}
}

func TestPaymentStatus_Actions(t *testing.T) {
	if !PaymentPending.CanProcess() {
		t.Fatalf("EN_ATTENTE should be processable")
	}
	for _, s := range []PaymentStatus{PaymentDone, PaymentFailed, PaymentRefunded} {
		if s.CanProcess() {
			t.Fatalf("%s must not offer process", s)
		}
	}
	got := PaymentDone.Shortcuts()
	want := []PaymentStatus{PaymentFailed, PaymentRefunded}
	if !slices.Equal(got, want) {
		t.Fatalf("Shortcuts() = %v, want %v", got, want)
	}
	if len(PaymentPending.Shortcuts()) != 3 {
		t.Fatalf("EN_ATTENTE should offer three shortcuts")
	}
	if !PaymentRefunded.CanTransitionTo(PaymentDone) {
		t.Fatalf("payment shortcuts are not forward-only")
	}
}

func TestDateTime_JSON(t *testing.T) {
	var d DateTime
	if err := json.Unmarshal([]byte(`"2024-05-01T10:30:00"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d.Display() != "01/05/2024" {
		t.Fatalf("Display() = %q", d.Display())
	}
	b, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(b) != `"2024-05-01T10:30:00"` {
		t.Fatalf("marshal = %s", b)
	}
	if err := json.Unmarshal([]byte(`"2024-05-01T10:30:00.123456"`), &d); err != nil {
		t.Fatalf("fractional seconds: %v", err)
	}
	if err := json.Unmarshal([]byte(`null`), &d); err != nil || !d.IsZero() {
		t.Fatalf("null should give zero value, got %v %v", d, err)
	}
	zero, _ := json.Marshal(DateTime{})
	if string(zero) != "null" {
		t.Fatalf("zero marshal = %s", zero)
	}
	if err := json.Unmarshal([]byte(`"not a date"`), &d); err == nil {
		t.Fatalf("expected error")
	}
}

func TestParseDateTime_InputFormats(t *testing.T) {
	d, err := ParseDateTime("2024-06-02T08:15")
	if err != nil {
		t.Fatalf("datetime-local: %v", err)
	}
	if d.Hour() != 8 || d.Minute() != 15 {
		t.Fatalf("unexpected time %v", d.Time)
	}
	d, err = ParseDateTime("2024-06-02")
	if err != nil || d.Day() != 2 || d.Month() != time.June {
		t.Fatalf("date: %v %v", d, err)
	}
}

func TestOrderLine_Total(t *testing.T) {
	l := OrderLine{Quantite: 3, PrixUnitaire: 19.99}
	if got := l.Total().StringFixed(2); got != "59.97" {
		t.Fatalf("Total() = %s, want 59.97", got)
	}
}

func TestOrderRequest_JSONShape(t *testing.T) {
	req := OrderRequest{
		Client: Ref{ID: 4},
		Lignes: []OrderLineRequest{{Produit: Ref{ID: 9}, Quantite: 2, PrixUnitaire: 10}},
	}
	b, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"client":{"id":4},"lignesCommande":[{"produit":{"id":9},"quantite":2,"prixUnitaire":10}]}`
	if string(b) != want {
		t.Fatalf("payload = %s\nwant    %s", b, want)
	}
}
