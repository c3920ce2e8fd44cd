// Package i18n holds the fr/en message catalogue of the back-office.
package i18n

import "strings"

const Default = "fr"

var messages = map[string]map[string]string{
	"fr": {
		// validation
		"required":         "Requis",
		"must_be_positive": "Doit être supérieur à 0",
		"out_of_range":     "Hors limites",
		"invalid_email":    "Adresse email invalide",
		"invalid_phone":    "Numéro de téléphone invalide (10 chiffres)",
		"invalid_number":   "Nombre invalide",
		"invalid_date":     "Date invalide",
		"invalid_choice":   "Choix invalide",

		// navigation
		"nav.dashboard":     "Tableau de bord",
		"nav.clients":       "Clients",
		"nav.produits":      "Produits",
		"nav.fournisseurs":  "Fournisseurs",
		"nav.commandes":     "Commandes",
		"nav.livraisons":    "Livraisons",
		"nav.paiements":     "Paiements",
		"nav.transporteurs": "Transporteurs",
		"nav.journal":       "Journal",

		// actions
		"action.new":           "Nouveau",
		"action.edit":          "Modifier",
		"action.delete":        "Supprimer",
		"action.cancel":        "Annuler",
		"action.save":          "Enregistrer",
		"action.back":          "Retour",
		"action.search":        "Rechercher",
		"action.view":          "Voir",
		"action.confirm":       "Confirmer",
		"action.add":           "Ajouter",
		"action.remove":        "Retirer",
		"action.submit_order":  "Créer la commande",
		"action.process":       "Traiter le paiement",
		"action.mark_as":       "Marquer comme",
		"action.change_status": "Changer le statut",
		"action.assign":        "Affecter",
		"action.rate":          "Noter",

		// flash
		"flash.created":        "Enregistrement créé",
		"flash.updated":        "Modifications enregistrées",
		"flash.deleted":        "Enregistrement supprimé",
		"flash.status_updated": "Statut mis à jour",
		"flash.cancelled":      "Annulation effectuée",
		"flash.processed":      "Paiement traité",
		"flash.assigned":       "Transporteur affecté",
		"flash.rated":          "Note enregistrée",
		"flash.locked":         "Action impossible dans l'état actuel",

		// errors
		"error.backend":         "Erreur du serveur",
		"error.not_found":       "Introuvable",
		"error.confirm":         "Confirmation invalide ou expirée",
		"error.transition":      "Transition de statut non autorisée",
		"error.unknown_product": "Produit inconnu",
		"error.stock":           "Stock insuffisant pour au moins une ligne",

		// confirmation
		"confirm.title":           "Confirmation",
		"confirm.delete":          "Supprimer définitivement cet enregistrement ?",
		"confirm.cancel_order":    "Annuler cette commande ? Cette action est irréversible.",
		"confirm.cancel_delivery": "Annuler cette livraison ?",

		// order statuses
		"statut.EN_ATTENTE":     "En attente",
		"statut.VALIDEE":        "Validée",
		"statut.EN_PREPARATION": "En préparation",
		"statut.EXPEDIEE":       "Expédiée",
		"statut.LIVREE":         "Livrée",
		"statut.ANNULEE":        "Annulée",
		// delivery-only statuses
		"statut.EN_COURS": "En cours",
		"statut.RETARDEE": "Retardée",
		// payment statuses
		"statut.EFFECTUE":  "Effectué",
		"statut.ECHEC":     "Échec",
		"statut.REMBOURSE": "Remboursé",

		"mode.CARTE_CREDIT": "Carte de crédit",
		"mode.VIREMENT":     "Virement",
		"mode.PAYPAL":       "PayPal",
		"mode.ESPECES":      "Espèces",
		"mode.CHEQUE":       "Chèque",

		"list.count": "sur",
		"list.empty": "Aucun élément",

		// columns and labels
		"col.delivery_date": "Date de livraison",
		"col.amount_paid":   "Montant payé",
		"col.unit_price":    "Prix unitaire",
		"col.subtotal":      "Sous-total",
		"col.name":          "Nom",
		"col.date":          "Date",
		"col.status":        "Statut",
		"col.phone":         "Téléphone",
		"col.total":         "Total",
		"col.notes":         "Notes",
		"col.rating":        "Note",
		"col.email":         "Email",
		"col.order":         "Commande",
		"col.client":        "Client",
		"col.address":       "Adresse",
		"col.carrier":       "Transporteur",
		"col.stock":         "Stock",
		"col.request":       "Requête",
		"col.quantity":      "Quantité",
		"col.product":       "Produit",
		"col.price":         "Prix",
		"col.amount":        "Montant",
		"col.mode":          "Mode",
		"col.entity":        "Entité",
		"col.description":   "Description",
		"col.field":         "Champ",
		"col.before":        "Avant",
		"col.after":         "Après",
		"col.action":        "Action",
		"col.cost":          "Coût",
	},
	"en": {
		"required":         "Required",
		"must_be_positive": "Must be greater than 0",
		"out_of_range":     "Out of range",
		"invalid_email":    "Invalid email address",
		"invalid_phone":    "Invalid phone number (10 digits)",
		"invalid_number":   "Invalid number",
		"invalid_date":     "Invalid date",
		"invalid_choice":   "Invalid choice",

		"nav.dashboard":     "Dashboard",
		"nav.clients":       "Customers",
		"nav.produits":      "Products",
		"nav.fournisseurs":  "Suppliers",
		"nav.commandes":     "Orders",
		"nav.livraisons":    "Deliveries",
		"nav.paiements":     "Payments",
		"nav.transporteurs": "Carriers",
		"nav.journal":       "Audit log",

		"action.new":           "New",
		"action.edit":          "Edit",
		"action.delete":        "Delete",
		"action.cancel":        "Cancel",
		"action.save":          "Save",
		"action.back":          "Back",
		"action.search":        "Search",
		"action.view":          "View",
		"action.confirm":       "Confirm",
		"action.add":           "Add",
		"action.remove":        "Remove",
		"action.submit_order":  "Create order",
		"action.process":       "Process payment",
		"action.mark_as":       "Mark as",
		"action.change_status": "Change status",
		"action.assign":        "Assign",
		"action.rate":          "Rate",

		"flash.created":        "Record created",
		"flash.updated":        "Changes saved",
		"flash.deleted":        "Record deleted",
		"flash.status_updated": "Status updated",
		"flash.cancelled":      "Cancelled",
		"flash.processed":      "Payment processed",
		"flash.assigned":       "Carrier assigned",
		"flash.rated":          "Rating saved",
		"flash.locked":         "Not allowed in the current state",

		"error.backend":         "Server error",
		"error.not_found":       "Not found",
		"error.confirm":         "Invalid or expired confirmation",
		"error.transition":      "Status transition not allowed",
		"error.unknown_product": "Unknown product",
		"error.stock":           "Not enough stock for at least one line",

		"confirm.title":           "Confirmation",
		"confirm.delete":          "Permanently delete this record?",
		"confirm.cancel_order":    "Cancel this order? This cannot be undone.",
		"confirm.cancel_delivery": "Cancel this delivery?",

		"statut.EN_ATTENTE":     "Pending",
		"statut.VALIDEE":        "Validated",
		"statut.EN_PREPARATION": "In preparation",
		"statut.EXPEDIEE":       "Shipped",
		"statut.LIVREE":         "Delivered",
		"statut.ANNULEE":        "Cancelled",
		"statut.EN_COURS":       "In transit",
		"statut.RETARDEE":       "Delayed",
		"statut.EFFECTUE":       "Paid",
		"statut.ECHEC":          "Failed",
		"statut.REMBOURSE":      "Refunded",

		"mode.CARTE_CREDIT": "Credit card",
		"mode.VIREMENT":     "Bank transfer",
		"mode.PAYPAL":       "PayPal",
		"mode.ESPECES":      "Cash",
		"mode.CHEQUE":       "Cheque",

		"list.count": "of",
		"list.empty": "Nothing here",

		// columns and labels
		"col.delivery_date": "Delivery date",
		"col.amount_paid":   "Amount paid",
		"col.unit_price":    "Unit price",
		"col.subtotal":      "Subtotal",
		"col.name":          "Name",
		"col.date":          "Date",
		"col.status":        "Status",
		"col.phone":         "Phone",
		"col.total":         "Total",
		"col.notes":         "Notes",
		"col.rating":        "Rating",
		"col.email":         "Email",
		"col.order":         "Order",
		"col.client":        "Customer",
		"col.address":       "Address",
		"col.carrier":       "Carrier",
		"col.stock":         "Stock",
		"col.request":       "Request",
		"col.quantity":      "Quantity",
		"col.product":       "Product",
		"col.price":         "Price",
		"col.amount":        "Amount",
		"col.mode":          "Method",
		"col.entity":        "Entity",
		"col.description":   "Description",
		"col.field":         "Field",
		"col.before":        "Before",
		"col.after":         "After",
		"col.action":        "Action",
		"col.cost":          "Cost",
	},
}

// T translates code. Unknown languages use the French catalogue and
// unknown codes are returned as-is.
func T(lang, code string) string {
	if m, ok := messages[lang]; ok {
		if s, ok := m[code]; ok {
			return s
		}
	}
	if s, ok := messages[Default][code]; ok {
		return s
	}
	return code
}

// DetectLanguage picks the first supported language of an Accept-Language header.
func DetectLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		switch base {
		case "en":
			return "en"
		case "fr":
			return "fr"
		}
	}
	return Default
}

// Supports reports whether lang has a catalogue.
func Supports(lang string) bool {
	_, ok := messages[lang]
	return ok
}
