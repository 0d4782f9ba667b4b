package ppcp

import (
	"context"
	"net/http"
	"time"
)

type CaptureStatus string

const (
	CSCompleted         CaptureStatus = "COMPLETED"
	CSDeclined          CaptureStatus = "DECLINED"
	CSPartiallyRefunded CaptureStatus = "PARTIALLY_REFUNDED"
	CSPending           CaptureStatus = "PENDING"
	CSRefunded          CaptureStatus = "REFUNDED"
	CSFailed            CaptureStatus = "FAILED"
)

// Capture is a captured payment.
//
// See https://developer.paypal.com/docs/api/payments/v2/#captures_get.
type Capture struct {
	ID           string        `json:"id,omitempty"`
	Status       CaptureStatus `json:"status,omitempty"`
	Amount       *Money        `json:"amount,omitempty"`
	FinalCapture bool          `json:"final_capture,omitempty"`
	CreateTime   *time.Time    `json:"create_time,omitempty"`
	Links        []*Link       `json:"links,omitempty"`
}

type AuthorizationStatus string

const (
	ASCreated           AuthorizationStatus = "CREATED"
	ASCaptured          AuthorizationStatus = "CAPTURED"
	ASDenied            AuthorizationStatus = "DENIED"
	ASPartiallyCaptured AuthorizationStatus = "PARTIALLY_CAPTURED"
	ASVoided            AuthorizationStatus = "VOIDED"
	ASPending           AuthorizationStatus = "PENDING"
)

// Authorization is an authorized payment.
//
// See https://developer.paypal.com/docs/api/payments/v2/#authorizations_get.
type Authorization struct {
	ID             string              `json:"id,omitempty"`
	Status         AuthorizationStatus `json:"status,omitempty"`
	Amount         *Money              `json:"amount,omitempty"`
	ExpirationTime *time.Time          `json:"expiration_time,omitempty"`
	Links          []*Link             `json:"links,omitempty"`
}

type RefundStatus string

const (
	RSCancelled RefundStatus = "CANCELLED"
	RSFailed    RefundStatus = "FAILED"
	RSPending   RefundStatus = "PENDING"
	RSCompleted RefundStatus = "COMPLETED"
)

// Refund is a refund of a captured payment.
//
// See https://developer.paypal.com/docs/api/payments/v2/#refunds_get.
type Refund struct {
	ID          string       `json:"id,omitempty"`
	Status      RefundStatus `json:"status,omitempty"`
	Amount      *Money       `json:"amount,omitempty"`
	NoteToPayer string       `json:"note_to_payer,omitempty"`
	Links       []*Link      `json:"links,omitempty"`
}

type CaptureAuthorizationReq struct {
	ID string `json:"-"`

	// Amount is the amount to capture, the full authorized amount is captured if nil.
	Amount       *Money `json:"amount,omitempty"`
	InvoiceID    string `json:"invoice_id,omitempty"`
	FinalCapture bool   `json:"final_capture,omitempty"`
}

// CaptureAuthorization captures an authorized payment.
//
// See https://developer.paypal.com/docs/api/payments/v2/#authorizations_capture.
func (c *Client) CaptureAuthorization(ctx context.Context, req *CaptureAuthorizationReq,
) (res *Capture, err error) {
	if req == nil || req.ID == "" {
		return nil, &MissingFieldError{Field: "authorization_id"}
	}
	if req.Amount != nil {
		if err = check(req.Amount); err != nil {
			return
		}
	}
	ctx = WithOperation(ctx, "CaptureAuthorization")
	path := "/v2/payments/authorizations/" + req.ID + "/capture"
	return JSON[Capture](ctx, c, http.MethodPost, path, req)
}

type VoidAuthorizationReq struct {
	ID string
}

// VoidAuthorization voids, or cancels, an authorized payment.
//
// See https://developer.paypal.com/docs/api/payments/v2/#authorizations_void.
func (c *Client) VoidAuthorization(ctx context.Context, req *VoidAuthorizationReq) (err error) {
	if req == nil || req.ID == "" {
		return &MissingFieldError{Field: "authorization_id"}
	}
	ctx = WithOperation(ctx, "VoidAuthorization")
	path := "/v2/payments/authorizations/" + req.ID + "/void"
	return JSONNop(ctx, c, http.MethodPost, path, nil)
}

type RefundCaptureReq struct {
	ID string `json:"-"`

	// Amount is the amount to refund, the full captured amount is refunded if nil.
	Amount      *Money `json:"amount,omitempty"`
	NoteToPayer string `json:"note_to_payer,omitempty"`
}

// RefundCapture refunds a captured payment.
//
// See https://developer.paypal.com/docs/api/payments/v2/#captures_refund.
func (c *Client) RefundCapture(ctx context.Context, req *RefundCaptureReq) (res *Refund, err error) {
	if req == nil || req.ID == "" {
		return nil, &MissingFieldError{Field: "capture_id"}
	}
	if req.Amount != nil {
		if err = check(req.Amount); err != nil {
			return
		}
	}
	ctx = WithOperation(ctx, "RefundCapture")
	path := "/v2/payments/captures/" + req.ID + "/refund"
	return JSON[Refund](ctx, c, http.MethodPost, path, req)
}
