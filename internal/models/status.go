package models

import "fmt"

// OrderStatus is the lifecycle state of a commande.
type OrderStatus string

const (
	OrderPending   OrderStatus = "EN_ATTENTE"
	OrderValidated OrderStatus = "VALIDEE"
	OrderPreparing OrderStatus = "EN_PREPARATION"
	OrderShipped   OrderStatus = "EXPEDIEE"
	OrderDelivered OrderStatus = "LIVREE"
	OrderCancelled OrderStatus = "ANNULEE"
)

// OrderStatuses lists every order state in lifecycle order.
var OrderStatuses = []OrderStatus{OrderPending, OrderValidated, OrderPreparing, OrderShipped, OrderDelivered, OrderCancelled}

// orderTransitions is the forward-only table used by every status editor.
// Cancellation is not part of it: see CanCancel.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:   {OrderValidated, OrderPreparing},
	OrderValidated: {OrderPreparing, OrderShipped},
	OrderPreparing: {OrderShipped},
	OrderShipped:   {OrderDelivered},
	OrderDelivered: {},
	OrderCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := orderTransitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool { return s == OrderDelivered || s == OrderCancelled }

// NextStatuses returns the targets the generic editor may offer from s.
func (s OrderStatus) NextStatuses() []OrderStatus {
	next := orderTransitions[s]
	out := make([]OrderStatus, len(next))
	copy(out, next)
	return out
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, n := range orderTransitions[s] {
		if n == target {
			return true
		}
	}
	return false
}

// CanCancel reports whether the dedicated cancel action is available.
func (s OrderStatus) CanCancel() bool { return s.Valid() && !s.IsTerminal() }

func ParseOrderStatus(v string) (OrderStatus, error) {
	s := OrderStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("statut de commande inconnu: %q", v)
	}
	return s, nil
}

// DeliveryStatus is the lifecycle state of a livraison.
type DeliveryStatus string

const (
	DeliveryPending    DeliveryStatus = "EN_ATTENTE"
	DeliveryInProgress DeliveryStatus = "EN_COURS"
	DeliveryDelivered  DeliveryStatus = "LIVREE"
	DeliveryDelayed    DeliveryStatus = "RETARDEE"
	DeliveryCancelled  DeliveryStatus = "ANNULEE"
)

var DeliveryStatuses = []DeliveryStatus{DeliveryPending, DeliveryInProgress, DeliveryDelivered, DeliveryDelayed, DeliveryCancelled}

func (s DeliveryStatus) Valid() bool {
	for _, d := range DeliveryStatuses {
		if d == s {
			return true
		}
	}
	return false
}

func (s DeliveryStatus) IsTerminal() bool { return s == DeliveryDelivered || s == DeliveryCancelled }

// NextStatuses offers every state except ANNULEE and the current one.
// A terminal delivery offers nothing.
func (s DeliveryStatus) NextStatuses() []DeliveryStatus {
	if s.IsTerminal() {
		return nil
	}
	var out []DeliveryStatus
	for _, d := range DeliveryStatuses {
		if d == s || d == DeliveryCancelled {
			continue
		}
		out = append(out, d)
	}
	return out
}

func (s DeliveryStatus) CanTransitionTo(target DeliveryStatus) bool {
	for _, d := range s.NextStatuses() {
		if d == target {
			return true
		}
	}
	return false
}

// CanModify gates edit, cancel, delete and carrier assignment.
func (s DeliveryStatus) CanModify() bool { return s.Valid() && !s.IsTerminal() }

func ParseDeliveryStatus(v string) (DeliveryStatus, error) {
	s := DeliveryStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("statut de livraison inconnu: %q", v)
	}
	return s, nil
}

// PaymentStatus is the lifecycle state of a paiement.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "EN_ATTENTE"
	PaymentDone     PaymentStatus = "EFFECTUE"
	PaymentFailed   PaymentStatus = "ECHEC"
	PaymentRefunded PaymentStatus = "REMBOURSE"
)

var PaymentStatuses = []PaymentStatus{PaymentPending, PaymentDone, PaymentFailed, PaymentRefunded}

func (s PaymentStatus) Valid() bool {
	for _, p := range PaymentStatuses {
		if p == s {
			return true
		}
	}
	return false
}

// CanProcess reports whether the backend "process" action is offered.
func (s PaymentStatus) CanProcess() bool { return s == PaymentPending }

// Shortcuts returns the "mark as" targets. They are offered whatever the
// current state (only the current one is skipped); the backend decides.
func (s PaymentStatus) Shortcuts() []PaymentStatus {
	var out []PaymentStatus
	for _, p := range []PaymentStatus{PaymentDone, PaymentFailed, PaymentRefunded} {
		if p != s {
			out = append(out, p)
		}
	}
	return out
}

func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	return target.Valid() && target != s
}

func ParsePaymentStatus(v string) (PaymentStatus, error) {
	s := PaymentStatus(v)
	if !s.Valid() {
		return "", fmt.Errorf("statut de paiement inconnu: %q", v)
	}
	return s, nil
}

// PaymentMode is the means of payment.
type PaymentMode string

const (
	ModeCard     PaymentMode = "CARTE_CREDIT"
	ModeTransfer PaymentMode = "VIREMENT"
	ModePaypal   PaymentMode = "PAYPAL"
	ModeCash     PaymentMode = "ESPECES"
	ModeCheque   PaymentMode = "CHEQUE"
)

var PaymentModes = []PaymentMode{ModeCard, ModeTransfer, ModePaypal, ModeCash, ModeCheque}

func (m PaymentMode) Valid() bool {
	for _, p := range PaymentModes {
		if p == m {
			return true
		}
	}
	return false
}

func ParsePaymentMode(v string) (PaymentMode, error) {
	m := PaymentMode(v)
	if !m.Valid() {
		return "", fmt.Errorf("mode de paiement inconnu: %q", v)
	}
	return m, nil
}
