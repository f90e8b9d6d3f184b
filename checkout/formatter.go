package checkout

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/thomasmartinez00018-create/mas-organicos-express1/models"
	"github.com/thomasmartinez00018-create/mas-organicos-express1/utils"
)

// Formatting refusals. Callers map these to HTTP statuses; the frontend is
// expected to disable submission before they can trigger.
var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrMissingName    = errors.New("customer name is required")
	ErrMissingAddress = errors.New("address is required for delivery orders")
	ErrBelowMinimum   = errors.New("subtotal is below the zone minimum purchase")
)

// Formatter renders a resolved pricing result into the WhatsApp order
// message and its deep link. Pure apart from the fixed phone configuration.
type Formatter struct {
	phone string
}

// NewFormatter creates a Formatter sending orders to the given phone number
// (international format, digits only, e.g. "5491164399974").
func NewFormatter(phone string) *Formatter {
	return &Formatter{phone: phone}
}

// Breakdown returns the structured line-item view of the cart.
func Breakdown(cart *models.Cart) []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(cart.Lines))
	for _, l := range cart.Lines {
		lines = append(lines, models.OrderLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			LineTotal: l.LineTotal(),
		})
	}
	return lines
}

// ComposeMessage renders the order message. Field order is fixed: header,
// one line per cart line, subtotal, optional neighbor discount, delivery or
// pickup descriptor, grand total, customer name, address or pickup notice,
// closing line.
func (f *Formatter) ComposeMessage(cart *models.Cart, result models.PricingResult, user models.UserData) (string, error) {
	if cart.IsEmpty() {
		return "", ErrEmptyCart
	}
	if result.Blocked {
		return "", ErrBelowMinimum
	}
	if strings.TrimSpace(user.Name) == "" {
		return "", ErrMissingName
	}
	isDelivery := result.Mode == models.FulfillmentDelivery
	if isDelivery && strings.TrimSpace(user.Address) == "" {
		return "", ErrMissingAddress
	}

	var b strings.Builder
	b.WriteString("*HOLA! PEDIDO WEB - MÁS ORGÁNICOS* 🎄\n\n")

	b.WriteString("*Mi Pedido:*\n")
	for _, l := range cart.Lines {
		fmt.Fprintf(&b, "• %dx %s (%s)\n", l.Quantity, l.Name, utils.FormatARS(l.LineTotal()))
	}

	fmt.Fprintf(&b, "\n*Subtotal:* %s\n", utils.FormatARS(result.Subtotal))
	if result.NeighborDiscount > 0 {
		fmt.Fprintf(&b, "*Descuento Vecino:* -%s\n", utils.FormatARS(result.NeighborDiscount))
	}
	fmt.Fprintf(&b, "*Entrega:* %s\n", f.shippingText(result))
	fmt.Fprintf(&b, "*TOTAL FINAL: %s*\n\n", utils.FormatARS(result.Total))

	b.WriteString("*Mis Datos:*\n")
	fmt.Fprintf(&b, "👤 Nombre: %s\n", strings.TrimSpace(user.Name))
	if isDelivery {
		fmt.Fprintf(&b, "📍 Dirección: %s\n", strings.TrimSpace(user.Address))
	} else {
		b.WriteString("📍 Retiro por Sucursal\n")
	}

	b.WriteString("\n_Espero confirmación para abonar. Gracias!_")

	return b.String(), nil
}

// shippingText renders the delivery/pickup descriptor line from the
// resolved result only, so it can never contradict the summary endpoint.
func (f *Formatter) shippingText(result models.PricingResult) string {
	if result.Mode == models.FulfillmentPickup {
		if result.Downgraded {
			// The selected delivery zone stays visible for reference.
			return fmt.Sprintf("Retiro en Sucursal: %s (pedido para %s debajo del mínimo)",
				result.EffectiveZone.Label, result.Zone.Label)
		}
		return fmt.Sprintf("Retiro en Sucursal: %s", result.EffectiveZone.Label)
	}

	cost := utils.FormatARS(result.ShippingCost)
	if result.ShippingCost == 0 {
		cost = "GRATIS"
	}
	return fmt.Sprintf("Envío a %s (%s)\n📅 %s %s",
		result.Zone.Label, cost, result.Zone.Days, result.Zone.Hours)
}

// WhatsAppURL builds the wa.me deep link with the message percent-encoded
// as the text query parameter.
func (f *Formatter) WhatsAppURL(message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", f.phone, url.QueryEscape(message))
}

// BuildSummary composes the full checkout response: breakdown, message and
// deep link for a resolved result.
func (f *Formatter) BuildSummary(cart *models.Cart, result models.PricingResult, user models.UserData) (*models.OrderSummary, error) {
	message, err := f.ComposeMessage(cart, result, user)
	if err != nil {
		return nil, err
	}
	return &models.OrderSummary{
		Lines:       Breakdown(cart),
		Pricing:     result,
		Message:     message,
		WhatsAppURL: f.WhatsAppURL(message),
	}, nil
}
