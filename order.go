package ppcp

import (
	"context"
	"net/http"
	"time"
)

// OrderIndent is the intent to either capture payment immediately
// or authorize a payment for an order after order creation.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create!path=intent&t=request.
type OrderIntent string

const (
	OICapture   OrderIntent = "CAPTURE"
	OIAuthorize OrderIntent = "AUTHORIZE"
)

type OrderStatus string

const (
	// OSCreated indicates the order was created with the specified context.
	OSCreated OrderStatus = "CREATED"

	// OSSaved indicates the order was saved and persisted.
	OSSaved OrderStatus = "SAVED"

	// OSApproved indicates the customer approved the payment through the PayPal wallet
	// or another form of guest or unbranded payment.
	// For example, a card, bank account, or so on.
	OSApproved OrderStatus = "APPROVED"

	// OSVoided indicates all purchase units in the order are voided.
	OSVoided OrderStatus = "VOIDED"

	// OSCompleted indicates the payment was authorized
	// or the authorized payment was captured for the order.
	OSCompleted OrderStatus = "COMPLETED"

	// OSPayerActionRequired indicates the order requires an action from the payer
	// (e.g. 3DS authentication).
	OSPayerActionRequired OrderStatus = "PAYER_ACTION_REQUIRED"
)

// DisbursementMode is the funds that are held on behalf of the merchant.
type DisbursementMode string

const (
	DMInstant DisbursementMode = "INSTANT"
	DMDelayed DisbursementMode = "DELAYED"
)

// PurchaseUnit represents either a full or partial order
// that the payer intends to purchase from the payee.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create!path=purchase_units&t=request.
type PurchaseUnit struct {
	// ReferenceID is the API caller-provided external ID for the purchase unit.
	// Required for multiple purchase units when you must update the order through PATCH.
	ReferenceID string `json:"reference_id,omitempty"`

	// Description is the purchase description.
	//
	// The maximum length of the character is dependent on the type of characters used.
	// The character length is specified assuming a US ASCII character.
	// Depending on type of character; (e.g. accented character, Japanese characters)
	// the number of characters that can be specified as input
	// might not equal the permissible max length.
	Description string `json:"description,omitempty"`

	Amount             *Amount             `json:"amount,omitempty" validate:"required"`
	Payee              *Payee              `json:"payee,omitempty"`
	Items              []*Item             `json:"items,omitempty" validate:"dive,required"`
	Shipping           *Shipping           `json:"shipping,omitempty"`
	PaymentInstruction *PaymentInstruction `json:"payment_instruction,omitempty"`
	CustomID           string              `json:"custom_id,omitempty"`
	InvoiceID          string              `json:"invoice_id,omitempty"`
	SoftDescriptor     string              `json:"soft_descriptor,omitempty"`

	// Payments is only present in responses.
	Payments *Payments `json:"payments,omitempty" validate:"-"`
}

// Amount is the total order amount with an optional breakdown that provides details,
// such as the total item amount, total tax amount, shipping, handling, insurance,
// and discounts, if any.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create!path=purchase_units/amount&t=request.
type Amount struct {
	// CurrencyCode is the three-character ISO-4217 currency code that identifies the currency.
	//
	// Required.
	CurrencyCode string `json:"currency_code,omitempty" validate:"required,iso4217"`
	// Required.
	Value     string     `json:"value,omitempty" validate:"required,decimal"`
	Breakdown *Breakdown `json:"breakdown,omitempty"`
}

// Money is a currency code and a value.
type Money struct {
	CurrencyCode string `json:"currency_code,omitempty" validate:"required,iso4217"`
	Value        string `json:"value,omitempty" validate:"required,decimal"`
}

type Breakdown struct {
	ItemTotal        *Money `json:"item_total,omitempty"`
	Shipping         *Money `json:"shipping,omitempty"`
	Handling         *Money `json:"handling,omitempty"`
	TaxTotal         *Money `json:"tax_total,omitempty"`
	Insurance        *Money `json:"insurance,omitempty"`
	ShippingDiscount *Money `json:"shipping_discount,omitempty"`
	Discount         *Money `json:"discount,omitempty"`
}

// Payee is the merchant who receives payment for a purchase unit or a platform fee.
type Payee struct {
	EmailAddress string `json:"email_address,omitempty" validate:"omitempty,email"`
	MerchantID   string `json:"merchant_id,omitempty"`
}

type ItemCategory string

const (
	ICDigitalGoods  ItemCategory = "DIGITAL_GOODS"
	ICPhysicalGoods ItemCategory = "PHYSICAL_GOODS"
	ICDonation      ItemCategory = "DONATION"
)

// Item is an item in a purchase unit.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create!path=purchase_units/items&t=request.
type Item struct {
	Name        string       `json:"name,omitempty" validate:"required"`
	Quantity    string       `json:"quantity,omitempty" validate:"required"`
	UnitAmount  *Money       `json:"unit_amount,omitempty" validate:"required"`
	SKU         string       `json:"sku,omitempty"`
	Description string       `json:"description,omitempty"`
	Tax         *Money       `json:"tax,omitempty"`
	Category    ItemCategory `json:"category,omitempty" validate:"omitempty,oneof=DIGITAL_GOODS PHYSICAL_GOODS DONATION"`
}

type Shipping struct {
	Address *Address `json:"address,omitempty"`
}

// Address is a portable postal address.
//
// See https://developer.paypal.com/docs/api/orders/v2/#definition-address_portable.
type Address struct {
	AddressLine1 string `json:"address_line_1,omitempty"`
	AddressLine2 string `json:"address_line_2,omitempty"`
	// AdminArea1 is the state or province.
	AdminArea1 string `json:"admin_area_1,omitempty"`
	// AdminArea2 is the city, town, or village.
	AdminArea2 string `json:"admin_area_2,omitempty" validate:"required"`
	PostalCode string `json:"postal_code,omitempty" validate:"required"`
	// CountryCode is the two-character ISO 3166-1 code.
	CountryCode string `json:"country_code,omitempty" validate:"required,iso3166_1_alpha2"`
}

// PaymentInstruction is any additional payment instructions
// to be consider during payment processing.
type PaymentInstruction struct {
	DisbursementMode DisbursementMode `json:"disbursement_mode,omitempty" validate:"omitempty,oneof=INSTANT DELAYED"`
	PlatformFees     []*PlatformFee   `json:"platform_fees,omitempty" validate:"dive,required"`
}

// PlatformFee is a fee that the API caller collects from the payee.
type PlatformFee struct {
	Amount *Money `json:"amount,omitempty" validate:"required"`
	Payee  *Payee `json:"payee,omitempty" validate:"required"`
}

type ApplicationContext struct {
	BrandName          string `json:"brand_name,omitempty"`
	ShippingPreference string `json:"shipping_preference,omitempty"`
	UserAction         string `json:"user_action,omitempty"`
	ReturnURL          string `json:"return_url,omitempty" validate:"omitempty,url"`
	CancelURL          string `json:"cancel_url,omitempty" validate:"omitempty,url"`
}

// Payments holds the captures, authorizations and refunds of a purchase unit.
type Payments struct {
	Authorizations []*Authorization `json:"authorizations,omitempty"`
	Captures       []*Capture       `json:"captures,omitempty"`
	Refunds        []*Refund        `json:"refunds,omitempty"`
}

// PaymentSource is the payment source.
//
// See https://developer.paypal.com/docs/api/orders/v2/#definition-payment_source.
type PaymentSource struct {
	Card *Card `json:"card,omitempty"`
}

type Card struct {
	Name         string `json:"name,omitempty"`
	Number       string `json:"number,omitempty" validate:"required,credit_card"`
	Expiry       string `json:"expiry,omitempty" validate:"required"` // YYYY-MM
	SecurityCode string `json:"security_code,omitempty"`

	BillingAddress *Address `json:"billing_address,omitempty"`
}

// Order is the PayPal order.
//
// See https://developer.paypal.com/docs/api/orders/v2/#definition-order.
type Order struct {
	ID                 string              `json:"id,omitempty"`
	Intent             OrderIntent         `json:"intent,omitempty" validate:"required,oneof=CAPTURE AUTHORIZE"`
	PurchaseUnits      []*PurchaseUnit     `json:"purchase_units,omitempty" validate:"required,min=1,dive,required"`
	ApplicationContext *ApplicationContext `json:"application_context,omitempty"`
	Status             OrderStatus         `json:"status,omitempty"`
	CreateTime         *time.Time          `json:"create_time,omitempty"`
	UpdateTime         *time.Time          `json:"update_time,omitempty"`
	Links              []*Link             `json:"links,omitempty"`
}

type CreateOrderReq struct {
	*Order
}

// CreateOrder creates an order.
// The order is checked by [Validate] first and nothing is sent if it is invalid.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_create.
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderReq) (res *Order, err error) {
	if req == nil {
		return nil, &MissingFieldError{Field: "body"}
	}
	if err = Validate(req.Order); err != nil {
		return
	}
	ctx = WithOperation(ctx, "CreateOrder")
	return JSON[Order](ctx, c, http.MethodPost, "/v2/checkout/orders", req)
}

type GetOrderReq struct {
	ID string
}

// GetOrder shows details for an order.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_get.
func (c *Client) GetOrder(ctx context.Context, req *GetOrderReq) (res *Order, err error) {
	if req == nil || req.ID == "" {
		return nil, &MissingFieldError{Field: "order_id"}
	}
	ctx = WithOperation(ctx, "GetOrder")
	return JSON[Order](ctx, c, http.MethodGet, "/v2/checkout/orders/"+req.ID, nil)
}

type UpdateOrderReq struct {
	ID    string
	Patch Patch

	// Order is the current state of the order.
	// If set, every operation is applied to it locally first
	// so paths that do not exist are rejected before the request.
	Order *Order
}

// UpdateOrder updates an order with a CREATED or APPROVED status.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_patch.
func (c *Client) UpdateOrder(ctx context.Context, req *UpdateOrderReq) (err error) {
	if req == nil || req.ID == "" {
		return &MissingFieldError{Field: "order_id"}
	}
	if err = ValidatePatch(req.Order, req.Patch); err != nil {
		return
	}
	ctx = WithOperation(ctx, "UpdateOrder")
	return JSONNop(ctx, c, http.MethodPatch, "/v2/checkout/orders/"+req.ID, req.Patch)
}

type CaptureOrderReq struct {
	ID            string         `json:"-"`
	PaymentSource *PaymentSource `json:"payment_source,omitempty"`
}

// CaptureOrder captures payment for an order.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_capture.
func (c *Client) CaptureOrder(ctx context.Context, req *CaptureOrderReq) (res *Order, err error) {
	if req == nil || req.ID == "" {
		return nil, &MissingFieldError{Field: "order_id"}
	}
	if err = validatePaymentSource(req.PaymentSource); err != nil {
		return
	}
	ctx = WithOperation(ctx, "CaptureOrder")
	return JSON[Order](ctx, c, http.MethodPost, "/v2/checkout/orders/"+req.ID+"/capture", req)
}

type AuthorizeOrderReq struct {
	ID            string         `json:"-"`
	PaymentSource *PaymentSource `json:"payment_source,omitempty"`
}

// AuthorizeOrder authorizes payment for an order.
//
// See https://developer.paypal.com/docs/api/orders/v2/#orders_authorize.
func (c *Client) AuthorizeOrder(ctx context.Context, req *AuthorizeOrderReq) (res *Order, err error) {
	if req == nil || req.ID == "" {
		return nil, &MissingFieldError{Field: "order_id"}
	}
	if err = validatePaymentSource(req.PaymentSource); err != nil {
		return
	}
	ctx = WithOperation(ctx, "AuthorizeOrder")
	path := "/v2/checkout/orders/" + req.ID + "/authorize"
	return JSON[Order](ctx, c, http.MethodPost, path, req)
}

type HandleApproveReq struct {
	ID            string
	Intent        OrderIntent
	PaymentSource *PaymentSource
}

// HandleApprove completes an approved order according to its intent:
// CAPTURE orders are captured and AUTHORIZE orders are authorized.
func (c *Client) HandleApprove(ctx context.Context, req *HandleApproveReq) (res *Order, err error) {
	if req == nil || req.ID == "" {
		return nil, &MissingFieldError{Field: "order_id"}
	}
	switch req.Intent {
	case OICapture:
		return c.CaptureOrder(ctx, &CaptureOrderReq{ID: req.ID, PaymentSource: req.PaymentSource})
	case OIAuthorize:
		return c.AuthorizeOrder(ctx, &AuthorizeOrderReq{ID: req.ID, PaymentSource: req.PaymentSource})
	case "":
		return nil, &MissingFieldError{Field: "intent"}
	default:
		return nil, &InvalidEnumError{Field: "intent", Value: string(req.Intent)}
	}
}
