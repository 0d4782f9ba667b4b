package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adobaai/ppcp"
)

func run(args ...string) (string, error) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = io.Discard
	err := app.Run(append([]string{"ppcpc"}, args...))
	return out.String(), err
}

func TestValidate(t *testing.T) {
	out, err := run("validate", "testdata/order.json")
	require.NoError(t, err)
	assert.Equal(t, "ok\nEUR 7.25\nUSD 35.50\n", out)

	_, err = run("validate", "testdata/order_invalid.json")
	assert.ErrorIs(t, err, ppcp.ErrValidation)
	var e *ppcp.MissingFieldError
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "postal_code", e.Field)

	_, err = run("validate")
	assert.EqualError(t, err, "missing order file")
	_, err = run("validate", "testdata/missing.json")
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	out, err := run("resolve", "--order", "testdata/order.json",
		"/purchase_units/@reference_id=='lens_shop_seller'/amount")
	require.NoError(t, err)
	assert.Equal(t, `/purchase_units/1/amount
{
  "currency_code": "USD",
  "value": "10.50"
}
`, out)

	_, err = run("resolve", "--order", "testdata/order.json",
		"/purchase_units/@reference_id=='unknown_shop'/amount")
	assert.ErrorAs(t, err, new(*ppcp.NoSuchReferenceError))
	_, err = run("resolve", "--order", "testdata/order.json", "/purchase_units/0/color")
	assert.ErrorAs(t, err, new(*ppcp.NoSuchFieldError))
}

func TestPatch(t *testing.T) {
	t.Run("Amount", func(t *testing.T) {
		out, err := run("patch", "--order", "testdata/order.json", "--patch", "testdata/update_amount.json")
		require.NoError(t, err)
		var o ppcp.Order
		require.NoError(t, json.Unmarshal([]byte(out), &o))
		assert.Equal(t, "27.00", o.PurchaseUnits[0].Amount.Value)
		assert.Equal(t, "2.00", o.PurchaseUnits[0].Amount.Breakdown.Shipping.Value)
		assert.Equal(t, "10.50", o.PurchaseUnits[1].Amount.Value)
	})

	t.Run("ShippingAddress", func(t *testing.T) {
		out, err := run("patch", "--order", "testdata/order.json",
			"--patch", "testdata/update_shipping_address.json",
			"--query", ".purchase_units[0].shipping.address.admin_area_2")
		require.NoError(t, err)
		assert.Equal(t, "\"San Francisco\"\n", out)
	})

	t.Run("PlatformFee", func(t *testing.T) {
		out, err := run("patch", "--order", "testdata/order.json",
			"--patch", "testdata/update_platform_fee.json",
			"-q", `.purchase_units[] | select(.payment_instruction) | .reference_id`)
		require.NoError(t, err)
		assert.Equal(t, "\"lens_shop_seller\"\n", out)
	})

	t.Run("UnknownReference", func(t *testing.T) {
		_, err := run("patch", "--order", "testdata/order.json",
			"--patch", "testdata/update_unknown_reference.json")
		var e *ppcp.NoSuchReferenceError
		require.ErrorAs(t, err, &e)
		assert.Equal(t, "unknown_shop", e.ID)
	})

	t.Run("BadQuery", func(t *testing.T) {
		_, err := run("patch", "--order", "testdata/order.json",
			"--patch", "testdata/update_amount.json", "--query", ".purchase_units[")
		assert.ErrorContains(t, err, "parse query")
	})

	t.Run("MissingValue", func(t *testing.T) {
		_, err := run("patch", "--order", "testdata/order.json",
			"--patch", "testdata/update_missing_value.json")
		assert.Equal(t, &ppcp.MissingFieldError{Field: "value"}, errors.Unwrap(err))
	})

	t.Run("MissingFlag", func(t *testing.T) {
		_, err := run("patch", "--order", "testdata/order.json")
		assert.Error(t, err)
	})
}

func TestToken(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	base := "https://api-m.example.paypal.com"
	httpmock.RegisterResponder(http.MethodPost, base+"/v1/oauth2/token",
		func(r *http.Request) (*http.Response, error) {
			id, secret, _ := r.BasicAuth()
			if id != "client-id" || secret != "client-secret" {
				return httpmock.NewStringResponse(http.StatusUnauthorized,
					`{"error":"invalid_client","error_description":"Client Authentication failed"}`), nil
			}
			return httpmock.NewJsonResponse(http.StatusOK, map[string]any{
				"access_token": "A21AAFEpH4PsADK7qSS7pSRsgzfENtu",
				"token_type":   "Bearer",
				"expires_in":   32400,
			})
		})

	out, err := run("--base", base, "--client-id", "client-id", "--client-secret", "client-secret", "token")
	require.NoError(t, err)
	var token ppcp.Token
	require.NoError(t, json.Unmarshal([]byte(out), &token))
	assert.Equal(t, "Bearer", token.TokenType)
	assert.Equal(t, "A21AAFEpH4PsADK7qSS7pSRsgzfENtu", token.AccessToken)

	t.Setenv("PAYPAL_BASE", base)
	t.Setenv("PAYPAL_CLIENT_ID", "client-id")
	t.Setenv("PAYPAL_CLIENT_SECRET", "wrong")
	_, err = run("token")
	assert.ErrorContains(t, err, "invalid_client")

	t.Setenv("PAYPAL_CLIENT_ID", "")
	_, err = run("token")
	assert.ErrorIs(t, err, ppcp.ErrValidation)
}
