package http

import (
	"net/http"
	"time"

	accountuc "github.com/emiledger/backend/internal/usecase/account"
	"github.com/emiledger/backend/internal/usecase/dues"
	settlementuc "github.com/emiledger/backend/internal/usecase/settlement"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type AccountHandler struct {
	accounts *accountuc.Usecase
	dues     *dues.Usecase
	settle   *settlementuc.Usecase
}

func NewAccountHandler(accounts *accountuc.Usecase, d *dues.Usecase, s *settlementuc.Usecase) *AccountHandler {
	return &AccountHandler{accounts: accounts, dues: d, settle: s}
}

type createAccountReq struct {
	AgentActorID      string          `json:"agent_actor_id"     validate:"required,hex32"`
	CustomerName      string          `json:"customer_name"      validate:"required"`
	Mobile            string          `json:"mobile"`
	IMEI              string          `json:"imei"`
	InstallmentAmount decimal.Decimal `json:"installment_amount"`
	InstallmentCount  int             `json:"installment_count"  validate:"required,gte=1"`
	DueDay            int             `json:"due_day"            validate:"required,gte=1,lte=31"`
	// Canonical date `YYYY-MM-DD`
	StartDate       string          `json:"start_date"         validate:"required,datetime=2006-01-02"`
	SurchargeAmount decimal.Decimal `json:"surcharge_amount"`
}

func (h *AccountHandler) CreateAccount(c echo.Context) error {
	var req createAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	start, _ := time.Parse("2006-01-02", req.StartDate)
	dto, err := h.accounts.Create(c.Request().Context(), accountuc.CreateInput{
		AgentActorID:      req.AgentActorID,
		CustomerName:      req.CustomerName,
		Mobile:            req.Mobile,
		IMEI:              req.IMEI,
		InstallmentAmount: req.InstallmentAmount,
		InstallmentCount:  req.InstallmentCount,
		DueDay:            req.DueDay,
		StartDate:         start,
		SurchargeAmount:   req.SurchargeAmount,
		ActorID:           actorID(c),
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) GetAccount(c echo.Context) error {
	dto, err := h.accounts.Get(c.Request().Context(), c.Param("account_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *AccountHandler) GetDueBreakdown(c echo.Context) error {
	var asOf time.Time
	if raw := c.QueryParam("as_of"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "as_of must be YYYY-MM-DD"})
		}
		asOf = t
	}
	bd, err := h.dues.GetBreakdown(c.Request().Context(), c.Param("account_id"), asOf)
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, bd)
}

type settleAccountReq struct {
	AmountCollected decimal.Decimal `json:"amount_collected"`
	// Canonical date `YYYY-MM-DD`
	SettlementDate string `json:"settlement_date" validate:"required,datetime=2006-01-02"`
	Note           string `json:"note"`
}

func (h *AccountHandler) SettleAccount(c echo.Context) error {
	var req settleAccountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	date, _ := time.Parse("2006-01-02", req.SettlementDate)
	dto, err := h.settle.Settle(c.Request().Context(), settlementuc.SettleInput{
		AccountID:       c.Param("account_id"),
		AmountCollected: req.AmountCollected,
		SettlementDate:  date,
		Note:            req.Note,
		ActorID:         actorID(c),
	})
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *AccountHandler) GetSettlement(c echo.Context) error {
	dto, err := h.settle.Get(c.Request().Context(), c.Param("account_id"))
	if err != nil {
		return writeDomainErr(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
