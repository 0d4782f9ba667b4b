package ppcp

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	withFees := func(o *Order) {
		o.PurchaseUnits[0].PaymentInstruction = newTestPaymentInstruction("2.00")
	}
	tests := []struct {
		name   string
		mutate func(o *Order)
		want   error
	}{
		{"Valid", func(o *Order) {}, nil},
		{"ValidWithFees", withFees, nil},
		{"NoShipping", func(o *Order) { o.PurchaseUnits[0].Shipping = nil }, nil},
		{"NoItems", func(o *Order) { o.PurchaseUnits[0].Items = nil }, nil},
		{
			"Intent",
			func(o *Order) { o.Intent = "" },
			&MissingFieldError{Field: "intent"},
		},
		{
			"IntentUnknown",
			func(o *Order) { o.Intent = "SALE" },
			&InvalidEnumError{Field: "intent", Value: "SALE"},
		},
		{
			"PurchaseUnits",
			func(o *Order) { o.PurchaseUnits = nil },
			&MissingFieldError{Field: "purchase_units"},
		},
		{
			"PurchaseUnitsEmpty",
			func(o *Order) { o.PurchaseUnits = []*PurchaseUnit{} },
			&MissingFieldError{Field: "purchase_units"},
		},
		{
			"Amount",
			func(o *Order) { o.PurchaseUnits[0].Amount = nil },
			&MissingFieldError{Field: "amount"},
		},
		{
			"CurrencyCode",
			func(o *Order) { o.PurchaseUnits[0].Amount.CurrencyCode = "" },
			&MissingFieldError{Field: "currency_code"},
		},
		{
			"Value",
			func(o *Order) { o.PurchaseUnits[0].Amount.Value = "" },
			&MissingFieldError{Field: "value"},
		},
		{
			"ItemName",
			func(o *Order) { o.PurchaseUnits[0].Items[0].Name = "" },
			&MissingFieldError{Field: "name"},
		},
		{
			"ItemQuantity",
			func(o *Order) { o.PurchaseUnits[0].Items[0].Quantity = "" },
			&MissingFieldError{Field: "quantity"},
		},
		{
			"ItemUnitAmount",
			func(o *Order) { o.PurchaseUnits[0].Items[0].UnitAmount = nil },
			&MissingFieldError{Field: "unit_amount"},
		},
		{
			"AdminArea2",
			func(o *Order) { o.PurchaseUnits[0].Shipping.Address.AdminArea2 = "" },
			&MissingFieldError{Field: "admin_area_2"},
		},
		{
			"PostalCode",
			func(o *Order) { o.PurchaseUnits[0].Shipping.Address.PostalCode = "" },
			&MissingFieldError{Field: "postal_code"},
		},
		{
			"CountryCode",
			func(o *Order) { o.PurchaseUnits[0].Shipping.Address.CountryCode = "" },
			&MissingFieldError{Field: "country_code"},
		},
		{
			"PlatformFeeAmount",
			func(o *Order) {
				withFees(o)
				o.PurchaseUnits[0].PaymentInstruction.PlatformFees[0].Amount = nil
			},
			&MissingFieldError{Field: "amount"},
		},
		{
			"PlatformFeePayee",
			func(o *Order) {
				withFees(o)
				o.PurchaseUnits[0].PaymentInstruction.PlatformFees[0].Payee = nil
			},
			&MissingFieldError{Field: "payee"},
		},
		{
			"NilPurchaseUnit",
			func(o *Order) { o.PurchaseUnits = append(o.PurchaseUnits, nil) },
			&MissingFieldError{Field: "amount"},
		},
		{
			"NilItem",
			func(o *Order) { o.PurchaseUnits[0].Items = append(o.PurchaseUnits[0].Items, nil) },
			&MissingFieldError{Field: "name"},
		},
		{
			"NilPlatformFee",
			func(o *Order) {
				o.PurchaseUnits[0].PaymentInstruction = &PaymentInstruction{PlatformFees: []*PlatformFee{nil}}
			},
			&MissingFieldError{Field: "amount"},
		},
		{
			"CurrencyCodeUnknown",
			func(o *Order) { o.PurchaseUnits[0].Amount.CurrencyCode = "DOLLAR" },
			&InvalidValueError{Field: "currency_code", Value: "DOLLAR"},
		},
		{
			"ValueNotDecimal",
			func(o *Order) { o.PurchaseUnits[0].Amount.Value = "12,00" },
			&InvalidValueError{Field: "value", Value: "12,00"},
		},
		{
			"CountryCodeUnknown",
			func(o *Order) { o.PurchaseUnits[0].Shipping.Address.CountryCode = "USA" },
			&InvalidValueError{Field: "country_code", Value: "USA"},
		},
		{
			"DisbursementMode",
			func(o *Order) {
				withFees(o)
				o.PurchaseUnits[0].PaymentInstruction.DisbursementMode = "LATER"
			},
			&InvalidEnumError{Field: "disbursement_mode", Value: "LATER"},
		},
		{
			"DuplicateReferenceID",
			func(o *Order) {
				o.PurchaseUnits = append(o.PurchaseUnits, newTestPurchaseUnit(testRefID))
			},
			&InvalidValueError{Field: "reference_id", Value: testRefID},
		},
		{
			"FirstViolationWins",
			func(o *Order) {
				o.Intent = ""
				o.PurchaseUnits[0].Amount = nil
			},
			&MissingFieldError{Field: "intent"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOrder(testRefID)
			tt.mutate(o)
			err := Validate(o)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, err)
			assert.True(t, errors.Is(err, ErrValidation))
		})
	}

	t.Run("Nil", func(t *testing.T) {
		assert.Equal(t, &MissingFieldError{Field: "body"}, Validate(nil))
	})

	t.Run("NullElements", func(t *testing.T) {
		tests := []struct {
			body string
			want error
		}{
			{
				`{"intent":"CAPTURE","purchase_units":[{"amount":{"currency_code":"USD","value":"1.00"},"items":[null]}]}`,
				&MissingFieldError{Field: "name"},
			},
			{
				`{"intent":"CAPTURE","purchase_units":[{"amount":{"currency_code":"USD","value":"1.00"},"payment_instruction":{"platform_fees":[null]}}]}`,
				&MissingFieldError{Field: "amount"},
			},
			{
				`{"intent":"CAPTURE","purchase_units":[null]}`,
				&MissingFieldError{Field: "amount"},
			},
		}
		for _, tt := range tests {
			var o Order
			require.NoError(t, json.Unmarshal([]byte(tt.body), &o))
			assert.Equal(t, tt.want, Validate(&o), tt.body)
		}
	})

	t.Run("SecondUnit", func(t *testing.T) {
		o := newTestOrder(testRefID)
		pu := newTestPurchaseUnit("second")
		pu.Items[0].Quantity = ""
		o.PurchaseUnits = append(o.PurchaseUnits, pu)
		assert.Equal(t, &MissingFieldError{Field: "quantity"}, Validate(o))
	})
}

func TestValidatePatchOp(t *testing.T) {
	path := selectorPath(testRefID, "amount")
	tests := []struct {
		name string
		op   *PatchOp
		want error
	}{
		{"Replace", &PatchOp{Op: POReplace, Path: path, Value: usd("1.00")}, nil},
		{"Remove", &PatchOp{Op: PORemove, Path: path}, nil},
		{"Nil", nil, &MissingFieldError{Field: "op"}},
		{"Op", &PatchOp{Path: path, Value: 1}, &MissingFieldError{Field: "op"}},
		{"OpUnknown", &PatchOp{Op: "move", Path: path, Value: 1}, &InvalidEnumError{Field: "op", Value: "move"}},
		{"Path", &PatchOp{Op: POReplace, Value: 1}, &MissingFieldError{Field: "path"}},
		{"Value", &PatchOp{Op: POAdd, Path: path}, &MissingFieldError{Field: "value"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePatchOp(tt.op)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, err)
		})
	}
}
