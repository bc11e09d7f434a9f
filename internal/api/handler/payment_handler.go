package handler

import (
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/api/middleware"
	"github.com/RoyceAzure/lab/storefront/internal/domain/model"
	"github.com/RoyceAzure/lab/storefront/internal/infra/producer"
	"github.com/RoyceAzure/lab/storefront/internal/service"
	"github.com/gin-gonic/gin"
)

/*
PaymentHandler 只做 envelope 與 HTTP 的對應，不含業務邏輯

狀態變更（PATCH）不直接執行，推進佇列後立即回 202，
結果由 result topic 廣播回前端
*/
type PaymentHandler struct {
	query       service.IQueryService
	checkout    service.ICheckoutService
	transitions producer.ITransitionProducer
}

func NewPaymentHandler(
	query service.IQueryService,
	checkout service.ICheckoutService,
	transitions producer.ITransitionProducer,
) *PaymentHandler {
	return &PaymentHandler{
		query:       query,
		checkout:    checkout,
		transitions: transitions,
	}
}

func respond(c *gin.Context, result *model.Result) {
	switch result.Status {
	case model.OpStatusSuccess:
		c.JSON(http.StatusOK, result)
	case model.OpStatusFail:
		c.JSON(http.StatusBadRequest, result)
	default:
		c.JSON(http.StatusInternalServerError, result)
	}
}

// GetCarts GET /payments?userId=
// 不帶 userId 時回傳全量視圖（僅限管理員）
func (h *PaymentHandler) GetCarts(c *gin.Context) {
	credential := c.GetString(middleware.CredentialKey)

	var userID *int
	if raw := c.Query("userId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.FailResult("Invalid user id."))
			return
		}
		userID = &parsed
	}

	result, err := h.query.GetCarts(c.Request.Context(), credential, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResult("Internal server error."))
		return
	}
	respond(c, result)
}

// GetPrivateCarts GET /payments/private
// 未指定 sellerId 時查自己的
func (h *PaymentHandler) GetPrivateCarts(c *gin.Context) {
	credential := c.GetString(middleware.CredentialKey)

	var sellerID int
	if raw := c.Query("sellerId"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, model.FailResult("Invalid seller id."))
			return
		}
		sellerID = parsed
	} else {
		actor, ok := middleware.ActorFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, model.FailResult("Unauthorized: Invalid or missing token."))
			return
		}
		sellerID = actor.ID
	}

	result, err := h.query.GetPrivateCarts(c.Request.Context(), credential, sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResult("Internal server error."))
		return
	}
	respond(c, result)
}

// GetOrdersData GET /payments/ordersData/:id，公開統計
func (h *PaymentHandler) GetOrdersData(c *gin.Context) {
	sellerID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.FailResult("Invalid seller id."))
		return
	}

	result, err := h.query.GetOrdersData(c.Request.Context(), sellerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResult("Internal server error."))
		return
	}
	respond(c, result)
}

// CreatePaymentIntent POST /payments/create-intent
func (h *PaymentHandler) CreatePaymentIntent(c *gin.Context) {
	actor, ok := middleware.ActorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, model.FailResult("Unauthorized: Invalid or missing token."))
		return
	}

	var draft model.CartDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, model.FailResult("Invalid request body."))
		return
	}
	// 買家身份以 token 為準
	draft.UserID = actor.ID

	result, err := h.checkout.CreatePaymentIntent(c.Request.Context(), &draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResult("Internal server error."))
		return
	}
	respond(c, result)
}

type confirmPaymentRequest struct {
	PaymentIntentID string                 `json:"payment_intent_id" binding:"required"`
	PaymentMethodID string                 `json:"payment_method_id" binding:"required"`
	CustomerDetails *model.CustomerDetails `json:"customer_details"`
}

// ConfirmPayment POST /payments/confirm-payment
func (h *PaymentHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.FailResult("Invalid request body."))
		return
	}

	result, err := h.checkout.ConfirmPayment(c.Request.Context(), req.PaymentIntentID, req.PaymentMethodID, req.CustomerDetails)
	if err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResult("Internal server error."))
		return
	}
	respond(c, result)
}

type transitionRequest struct {
	Status      string `json:"status" binding:"required"`
	ClientToken string `json:"client_token" binding:"required"`
}

func (h *PaymentHandler) publishTransition(c *gin.Context, publish func(*model.StatusCommand) error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.FailResult("Invalid id."))
		return
	}

	var req transitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, model.FailResult("Invalid request body."))
		return
	}

	cmd := &model.StatusCommand{
		JWT:         c.GetString(middleware.CredentialKey),
		ID:          uint(id),
		Status:      req.Status,
		ClientToken: req.ClientToken,
	}
	if err := publish(cmd); err != nil {
		c.JSON(http.StatusInternalServerError, model.ErrorResult("Internal server error."))
		return
	}
	c.JSON(http.StatusAccepted, model.SuccessResult("Status update queued.", nil))
}

// UpdateSenderStatus PATCH /payments/sender/:id
func (h *PaymentHandler) UpdateSenderStatus(c *gin.Context) {
	h.publishTransition(c, func(cmd *model.StatusCommand) error {
		return h.transitions.PublishSenderTransition(c.Request.Context(), cmd)
	})
}

// UpdateReceiverStatus PATCH /payments/receiver/:id
func (h *PaymentHandler) UpdateReceiverStatus(c *gin.Context) {
	h.publishTransition(c, func(cmd *model.StatusCommand) error {
		return h.transitions.PublishReceiverTransition(c.Request.Context(), cmd)
	})
}
