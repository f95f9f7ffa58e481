package http

import (
	"context"
	"encoding/json"
	"errors"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	accountDomain "github.com/emiledger/backend/internal/domain/account"
	agentDomain "github.com/emiledger/backend/internal/domain/agent"
	"github.com/emiledger/backend/internal/domain/payment"
	scheduleDomain "github.com/emiledger/backend/internal/domain/schedule"
	"github.com/emiledger/backend/internal/testutil/actormock"
	"github.com/emiledger/backend/internal/testutil/agentmock"
	"github.com/emiledger/backend/internal/testutil/uowmock"
	"github.com/emiledger/backend/internal/usecase/approval"
	"github.com/emiledger/backend/internal/usecase/direct"
	"github.com/emiledger/backend/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const (
	testAccountID = "acc00000000000000000000000000001"
	testEntryID1  = "e1000000000000000000000000000001"
	testEntryID2  = "e2000000000000000000000000000002"
	testRequestID = "ef000000000000000000000000000001"
	testPIN       = "4321"
)

func activeAgent(t *testing.T) *agentDomain.Agent {
	t.Helper()
	h, err := agentDomain.HashPIN(testPIN)
	if err != nil {
		t.Fatalf("HashPIN: %v", err)
	}
	return &agentDomain.Agent{ID: 3, ActorID: testAgentActor, Active: true, PINHash: h}
}

func seedSubmitMocks(t *testing.T, mocks *uowmock.Mocks) {
	t.Helper()
	mocks.Accounts.GetByAccountIDForUpdateFn = func(ctx context.Context, accountID string) (*accountDomain.Account, error) {
		return &accountDomain.Account{ID: 42, AccountID: accountID, Status: accountDomain.StatusRunning}, nil
	}
	mocks.Entries.GetByEntryIDsForUpdateFn = func(ctx context.Context, accountID uint64, entryIDs []string) ([]*scheduleDomain.Entry, error) {
		return []*scheduleDomain.Entry{
			{ID: 10, EntryID: testEntryID1, AccountID: 42, SeqNo: 1, Amount: decimal.NewFromInt(500), Status: scheduleDomain.StatusUnpaid},
			{ID: 11, EntryID: testEntryID2, AccountID: 42, SeqNo: 2, Amount: decimal.NewFromInt(500), Status: scheduleDomain.StatusUnpaid},
		}, nil
	}
	mocks.Requests.CreateFn = func(ctx context.Context, r *payment.Request) error {
		r.ID = 77
		return nil
	}
}

func newPaymentHandler(t *testing.T, roles *actormock.Lookup) (*PaymentHandler, *uowmock.Mocks) {
	t.Helper()
	repos, mocks := uowmock.Bundle()
	agents := &agentmock.Repo{
		GetByActorIDFn: func(ctx context.Context, actorID string) (*agentDomain.Agent, error) {
			return activeAgent(t), nil
		},
	}
	uw := uowmock.Passthrough(repos)
	submitUC := submission.NewUsecase(uw, agents, nil)
	apprUC := approval.NewUsecase(uw, roles, nil)
	directUC := direct.NewUsecase(uw, roles, nil)
	return NewPaymentHandler(submitUC, apprUC, directUC), mocks
}

func postJSON(e *echo.Echo, path string, body any, actor string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(stdhttp.MethodPost, path, mustJSON(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != "" {
		req.Header.Set(ActorIDHeader, actor)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestSubmitPayment_Success(t *testing.T) {
	e := newEchoWithValidator()
	h, mocks := newPaymentHandler(t, actormock.Admin())
	seedSubmitMocks(t, mocks)

	body := map[string]any{
		"account_id": testAccountID,
		"items": []map[string]any{
			{"entry_id": testEntryID1, "amount": 500},
			{"entry_id": testEntryID2, "amount": 500},
		},
		"mode":              "cash",
		"pin":               testPIN,
		"installment_total": 1000,
		"grand_total":       1000,
	}
	c, rec := postJSON(e, "/payments/submit", body, testAgentActor)

	if err := h.SubmitPayment(c); err != nil {
		t.Fatalf("SubmitPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
	var res submission.SubmitResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if res.RequestID == "" {
		t.Fatalf("result = %+v", res)
	}
}

func TestSubmitPayment_ValidationFailure(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPaymentHandler(t, actormock.Admin())

	body := map[string]any{
		"account_id": "NOT-HEX",
		"items":      []map[string]any{},
		"mode":       "wire",
	}
	c, rec := postJSON(e, "/payments/submit", body, testAgentActor)

	if err := h.SubmitPayment(c); err != nil {
		t.Fatalf("SubmitPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(er.Details, "AccountID", "hex") {
		t.Fatalf("details = %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "Mode", "one of") {
		t.Fatalf("details = %+v", er.Details)
	}
}

func TestSubmitPayment_BadPIN(t *testing.T) {
	e := newEchoWithValidator()
	h, mocks := newPaymentHandler(t, actormock.Admin())
	seedSubmitMocks(t, mocks)

	body := map[string]any{
		"account_id": testAccountID,
		"items": []map[string]any{
			{"entry_id": testEntryID1, "amount": 500},
		},
		"mode":              "cash",
		"pin":               "9999",
		"installment_total": 500,
		"grand_total":       500,
	}
	c, rec := postJSON(e, "/payments/submit", body, testAgentActor)

	if err := h.SubmitPayment(c); err != nil {
		t.Fatalf("SubmitPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401 (%s)", rec.Code, rec.Body.String())
	}
}

func seedApproveMocks(mocks *uowmock.Mocks, req *payment.Request) {
	get := func(ctx context.Context, requestID string) (*payment.Request, error) {
		if requestID != req.RequestID {
			return nil, payment.ErrNotFound
		}
		return req, nil
	}
	mocks.Requests.GetByRequestIDForUpdateFn = get
	mocks.Requests.GetByRequestIDFn = get
	mocks.Entries.GetByIDsFn = func(context.Context, []uint64) ([]*scheduleDomain.Entry, error) {
		return []*scheduleDomain.Entry{
			{ID: 10, EntryID: testEntryID1, AccountID: 42, SeqNo: 1, Amount: decimal.NewFromInt(500), Status: scheduleDomain.StatusPendingApproval},
		}, nil
	}
	mocks.Entries.CountOutstandingFn = func(context.Context, uint64) (int64, error) { return 3, nil }
}

func approvablePendingRequest() *payment.Request {
	return &payment.Request{
		ID:               77,
		RequestID:        testRequestID,
		AccountID:        42,
		AgentID:          3,
		SubmittedBy:      testAgentActor,
		Status:           payment.StatusPending,
		Mode:             payment.ModeCash,
		InstallmentTotal: decimal.NewFromInt(500),
		GrandTotal:       decimal.NewFromInt(500),
		SelectedSeqNos:   datatypes.JSONSlice[int]{1},
		Items: []payment.Item{
			{ID: 1, PaymentRequestID: 77, EntryID: 10, SeqNo: 1, Amount: decimal.NewFromInt(500)},
		},
	}
}

func TestApprovePayment_Success(t *testing.T) {
	e := newEchoWithValidator()
	h, mocks := newPaymentHandler(t, actormock.Admin())
	seedApproveMocks(mocks, approvablePendingRequest())

	c, rec := postJSON(e, "/payments/approve", map[string]any{"request_id": testRequestID, "remark": "ok"}, testAdminActor)

	if err := h.ApprovePayment(c); err != nil {
		t.Fatalf("ApprovePayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	var res approval.ApproveResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if res.RequestID != testRequestID || len(res.EntryIDs) != 1 || res.EntryIDs[0] != testEntryID1 {
		t.Fatalf("result = %+v", res)
	}
}

func TestApprovePayment_SequentialPartialFailure(t *testing.T) {
	e := newEchoWithValidator()
	h, mocks := newPaymentHandler(t, actormock.Admin())
	seedApproveMocks(mocks, approvablePendingRequest())
	mocks.Requests.SaveFn = func(context.Context, *payment.Request) error {
		return errors.New("store briefly unavailable")
	}
	h.UseSequentialApproval()

	c, rec := postJSON(e, "/payments/approve", map[string]any{"request_id": testRequestID}, testAdminActor)

	if err := h.ApprovePayment(c); err != nil {
		t.Fatalf("ApprovePayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusInternalServerError {
		t.Fatalf("status = %d, want 500 (%s)", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !er.Partial {
		t.Fatalf("response not flagged partial: %+v", er)
	}
	if len(er.EntryIDs) != 1 || er.EntryIDs[0] != testEntryID1 {
		t.Fatalf("entry ids = %v, want the committed ledger entries", er.EntryIDs)
	}
}

func TestApprovePayment_ReplayReturnsOK(t *testing.T) {
	e := newEchoWithValidator()
	h, mocks := newPaymentHandler(t, actormock.Admin())
	req := approvablePendingRequest()
	req.Status = payment.StatusApproved
	seedApproveMocks(mocks, req)

	c, rec := postJSON(e, "/payments/approve", map[string]any{"request_id": testRequestID}, testAdminActor)

	if err := h.ApprovePayment(c); err != nil {
		t.Fatalf("ApprovePayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var res approval.ApproveResult
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !res.AlreadyApproved {
		t.Fatalf("result = %+v", res)
	}
}

func TestRejectPayment_MissingReason(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPaymentHandler(t, actormock.Admin())

	c, rec := postJSON(e, "/payments/reject", map[string]any{"request_id": testRequestID}, testAdminActor)

	if err := h.RejectPayment(c); err != nil {
		t.Fatalf("RejectPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	var er ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &er); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	if !containsFieldMsg(er.Details, "Reason", "required") {
		t.Fatalf("details = %+v", er.Details)
	}
}

func TestRejectPayment_BlankReason(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPaymentHandler(t, actormock.Admin())

	// Whitespace passes the struct validator but not the usecase.
	c, rec := postJSON(e, "/payments/reject", map[string]any{"request_id": testRequestID, "reason": "   "}, testAdminActor)

	if err := h.RejectPayment(c); err != nil {
		t.Fatalf("RejectPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400 (%s)", rec.Code, rec.Body.String())
	}
}

func TestRejectPayment_Success(t *testing.T) {
	e := newEchoWithValidator()
	h, mocks := newPaymentHandler(t, actormock.Admin())
	req := approvablePendingRequest()
	seedApproveMocks(mocks, req)

	c, rec := postJSON(e, "/payments/reject", map[string]any{"request_id": testRequestID, "reason": "wrong account"}, testAdminActor)

	if err := h.RejectPayment(c); err != nil {
		t.Fatalf("RejectPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200 (%s)", rec.Code, rec.Body.String())
	}
	if req.Status != payment.StatusRejected {
		t.Fatalf("request status = %s, want REJECTED", req.Status)
	}
}

func TestDirectRecordPayment_Success(t *testing.T) {
	e := newEchoWithValidator()
	h, mocks := newPaymentHandler(t, actormock.Admin())
	mocks.Accounts.GetByAccountIDForUpdateFn = func(ctx context.Context, accountID string) (*accountDomain.Account, error) {
		return &accountDomain.Account{ID: 42, AccountID: accountID, Status: accountDomain.StatusRunning}, nil
	}
	mocks.Entries.GetByEntryIDsForUpdateFn = func(ctx context.Context, accountID uint64, entryIDs []string) ([]*scheduleDomain.Entry, error) {
		return []*scheduleDomain.Entry{
			{ID: 10, EntryID: testEntryID1, AccountID: 42, SeqNo: 1, Amount: decimal.NewFromInt(500), Status: scheduleDomain.StatusUnpaid},
		}, nil
	}
	mocks.Requests.CreateFn = func(ctx context.Context, r *payment.Request) error {
		r.ID = 78
		return nil
	}
	mocks.Entries.CountOutstandingFn = func(context.Context, uint64) (int64, error) { return 3, nil }

	body := map[string]any{
		"account_id": testAccountID,
		"items": []map[string]any{
			{"entry_id": testEntryID1, "amount": 500},
		},
		"mode":        "cash",
		"grand_total": 500,
	}
	c, rec := postJSON(e, "/payments/direct", body, testAdminActor)

	if err := h.DirectRecordPayment(c); err != nil {
		t.Fatalf("DirectRecordPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("status = %d, want 201 (%s)", rec.Code, rec.Body.String())
	}
}

func TestDirectRecordPayment_Forbidden(t *testing.T) {
	e := newEchoWithValidator()
	h, _ := newPaymentHandler(t, actormock.AgentOnly())

	body := map[string]any{
		"account_id": testAccountID,
		"items": []map[string]any{
			{"entry_id": testEntryID1, "amount": 500},
		},
		"mode": "cash",
	}
	c, rec := postJSON(e, "/payments/direct", body, testAgentActor)

	if err := h.DirectRecordPayment(c); err != nil {
		t.Fatalf("DirectRecordPayment error: %v", err)
	}
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
}
