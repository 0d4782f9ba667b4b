package ppcp

const testRefID = "camera_shop_seller"

func usd(v string) *Money {
	return &Money{CurrencyCode: "USD", Value: v}
}

// newTestOrder returns a valid CAPTURE order with one purchase unit referenced by refID.
func newTestOrder(refID string) *Order {
	return &Order{
		Intent: OICapture,
		PurchaseUnits: []*PurchaseUnit{
			newTestPurchaseUnit(refID),
		},
		ApplicationContext: &ApplicationContext{
			ReturnURL: "https://www.example.com/return",
			CancelURL: "https://www.example.com/cancel",
		},
	}
}

func newTestPurchaseUnit(refID string) *PurchaseUnit {
	return &PurchaseUnit{
		ReferenceID: refID,
		Description: "Camera Shop",
		Amount: &Amount{
			CurrencyCode: "USD",
			Value:        "25.00",
			Breakdown: &Breakdown{
				ItemTotal:        usd("25.00"),
				Shipping:         usd("0"),
				Handling:         usd("0"),
				TaxTotal:         usd("0"),
				ShippingDiscount: usd("0"),
			},
		},
		Payee: &Payee{EmailAddress: "seller@business.example.com"},
		Items: []*Item{
			{
				Name:       "Levis 501 Selvedge STF",
				SKU:        "5158936",
				UnitAmount: usd("25.00"),
				Tax:        usd("0.00"),
				Quantity:   "1",
				Category:   ICPhysicalGoods,
			},
		},
		Shipping: &Shipping{
			Address: &Address{
				AddressLine1: "500 Hillside Street",
				AddressLine2: "#1000",
				AdminArea1:   "CA",
				AdminArea2:   "San Jose",
				PostalCode:   "95131",
				CountryCode:  "US",
			},
		},
		CustomID:       "custom_value",
		InvoiceID:      "invoice_number",
		SoftDescriptor: "Payment Camera Shop",
	}
}

func newTestPaymentInstruction(fee string) *PaymentInstruction {
	return &PaymentInstruction{
		PlatformFees: []*PlatformFee{
			{
				Amount: usd(fee),
				Payee:  &Payee{EmailAddress: "platform@business.example.com"},
			},
		},
	}
}

func selectorPath(refID, rest string) string {
	return "/purchase_units/@reference_id=='" + refID + "'/" + rest
}

func newUpdateAmountPatch(refID string) Patch {
	return Patch{
		{
			Op:   POReplace,
			Path: selectorPath(refID, "amount"),
			Value: &Amount{
				CurrencyCode: "USD",
				Value:        "27.00",
				Breakdown: &Breakdown{
					ItemTotal: usd("25.00"),
					Shipping:  usd("2.00"),
				},
			},
		},
	}
}

func newUpdateShippingAddressPatch(refID string) Patch {
	return Patch{
		{
			Op:   POReplace,
			Path: selectorPath(refID, "shipping/address"),
			Value: &Address{
				AddressLine1: "123 Townsend St",
				AddressLine2: "Floor 6",
				AdminArea1:   "CA",
				AdminArea2:   "San Francisco",
				PostalCode:   "94107",
				CountryCode:  "US",
			},
		},
	}
}

func newUpdatePlatformFeePatch(refID string) Patch {
	return Patch{
		{
			Op:    POAdd,
			Path:  selectorPath(refID, "payment_instruction"),
			Value: newTestPaymentInstruction("3.00"),
		},
	}
}
