package http

import (
	"net/http"

	"github.com/emiledger/backend/internal/usecase/approval"
	"github.com/emiledger/backend/internal/usecase/direct"
	"github.com/emiledger/backend/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	submit   *submission.Usecase
	approval *approval.Usecase
	direct   *direct.Usecase

	// When true, approvals run as independently committed steps instead
	// of one locked transaction. Used against stores without row locking.
	sequentialApproval bool
}

func NewPaymentHandler(submit *submission.Usecase, appr *approval.Usecase, dr *direct.Usecase) *PaymentHandler {
	return &PaymentHandler{submit: submit, approval: appr, direct: dr}
}

func (h *PaymentHandler) UseSequentialApproval() { h.sequentialApproval = true }

type submitItemReq struct {
	EntryID string          `json:"entry_id" validate:"required,hex32"`
	Amount  decimal.Decimal `json:"amount"`
}

type submitPaymentReq struct {
	AccountID        string          `json:"account_id"        validate:"required,hex32"`
	Items            []submitItemReq `json:"items"             validate:"required,min=1,dive"`
	Mode             string          `json:"mode"              validate:"required,oneof=cash electronic"`
	Notes            string          `json:"notes"`
	PIN              string          `json:"pin"               validate:"required"`
	InstallmentTotal decimal.Decimal `json:"installment_total"`
	FineTotal        decimal.Decimal `json:"fine_total"`
	SurchargeTotal   decimal.Decimal `json:"surcharge_total"`
	GrandTotal       decimal.Decimal `json:"grand_total"`
}

func (h *PaymentHandler) SubmitPayment(c echo.Context) error {
	var req submitPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	items := make([]submission.SubmitItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, submission.SubmitItem{EntryID: it.EntryID, Amount: it.Amount})
	}
	res, err := h.submit.Submit(c.Request().Context(), submission.SubmitInput{
		AccountID:        req.AccountID,
		Items:            items,
		Mode:             req.Mode,
		Notes:            req.Notes,
		ActorID:          actorID(c),
		PIN:              req.PIN,
		InstallmentTotal: req.InstallmentTotal,
		FineTotal:        req.FineTotal,
		SurchargeTotal:   req.SurchargeTotal,
		GrandTotal:       req.GrandTotal,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}

type approvePaymentReq struct {
	RequestID string `json:"request_id" validate:"required,hex32"`
	Remark    string `json:"remark"`
}

func (h *PaymentHandler) ApprovePayment(c echo.Context) error {
	var req approvePaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	in := approval.ApproveInput{
		RequestID: req.RequestID,
		ActorID:   actorID(c),
		Remark:    req.Remark,
	}
	var (
		res *approval.ApproveResult
		err error
	)
	if h.sequentialApproval {
		res, err = h.approval.ApproveSequential(c.Request().Context(), in)
	} else {
		res, err = h.approval.Approve(c.Request().Context(), in)
	}
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type rejectPaymentReq struct {
	RequestID string `json:"request_id" validate:"required,hex32"`
	Reason    string `json:"reason"     validate:"required"`
}

func (h *PaymentHandler) RejectPayment(c echo.Context) error {
	var req rejectPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	if err := h.approval.Reject(c.Request().Context(), approval.RejectInput{
		RequestID: req.RequestID,
		ActorID:   actorID(c),
		Reason:    req.Reason,
	}); err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

type directItemReq struct {
	EntryID string          `json:"entry_id" validate:"required,hex32"`
	Amount  decimal.Decimal `json:"amount"`
}

type directPaymentReq struct {
	AccountID      string          `json:"account_id" validate:"required,hex32"`
	Items          []directItemReq `json:"items"      validate:"required,min=1,dive"`
	Mode           string          `json:"mode"       validate:"required,oneof=cash electronic"`
	Notes          string          `json:"notes"`
	FineTotal      decimal.Decimal `json:"fine_total"`
	SurchargeTotal decimal.Decimal `json:"surcharge_total"`
	GrandTotal     decimal.Decimal `json:"grand_total"`
}

func (h *PaymentHandler) DirectRecordPayment(c echo.Context) error {
	var req directPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	items := make([]direct.RecordItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, direct.RecordItem{EntryID: it.EntryID, Amount: it.Amount})
	}
	res, err := h.direct.Record(c.Request().Context(), direct.RecordInput{
		AccountID:      req.AccountID,
		Items:          items,
		Mode:           req.Mode,
		Notes:          req.Notes,
		ActorID:        actorID(c),
		FineTotal:      req.FineTotal,
		SurchargeTotal: req.SurchargeTotal,
		GrandTotal:     req.GrandTotal,
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, res)
}
