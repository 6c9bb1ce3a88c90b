package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	billingUsecases "tablier/internal/application/billing/usecases"
	"tablier/internal/shared/constants"
	apperrors "tablier/internal/shared/errors"
	"tablier/internal/shared/logger"
	"tablier/internal/shared/utils"
)

// BillingHandler handles checkout, confirmation, portal and webhook
// endpoints for the payment processor integration.
type BillingHandler struct {
	startCheckoutUC       *billingUsecases.StartCheckoutUseCase
	confirmCheckoutUC     *billingUsecases.ConfirmCheckoutUseCase
	createPortalSessionUC *billingUsecases.CreatePortalSessionUseCase
	handleWebhookUC       *billingUsecases.HandleWebhookEventUseCase
	logger                logger.Interface
}

func NewBillingHandler(
	startCheckoutUC *billingUsecases.StartCheckoutUseCase,
	confirmCheckoutUC *billingUsecases.ConfirmCheckoutUseCase,
	createPortalSessionUC *billingUsecases.CreatePortalSessionUseCase,
	handleWebhookUC *billingUsecases.HandleWebhookEventUseCase,
	logger logger.Interface,
) *BillingHandler {
	return &BillingHandler{
		startCheckoutUC:       startCheckoutUC,
		confirmCheckoutUC:     confirmCheckoutUC,
		createPortalSessionUC: createPortalSessionUC,
		handleWebhookUC:       handleWebhookUC,
		logger:                logger,
	}
}

// StartCheckoutRequest is the request to begin a hosted checkout.
type StartCheckoutRequest struct {
	Plan string `json:"plan" binding:"required"`
}

// CheckoutURLResponse carries a redirect URL.
type CheckoutURLResponse struct {
	URL string `json:"url"`
}

// StartCheckout creates a hosted checkout session for the caller.
func (h *BillingHandler) StartCheckout(c *gin.Context) {
	userID, role, email, ok := callerIdentity(c)
	if !ok {
		return
	}

	var req StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for start checkout", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "plan is required")
		return
	}

	result, err := h.startCheckoutUC.Execute(c.Request.Context(), billingUsecases.StartCheckoutCommand{
		UserID: userID,
		Role:   role,
		Email:  email,
		Plan:   req.Plan,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", CheckoutURLResponse{URL: result.URL})
}

// ConfirmCheckout reconciles a completed checkout session on behalf of
// the redirected client. The session id arrives as a query parameter
// straight off the processor redirect URL.
func (h *BillingHandler) ConfirmCheckout(c *gin.Context) {
	userID, _, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "session_id is required")
		return
	}

	err := h.confirmCheckoutUC.Execute(c.Request.Context(), billingUsecases.ConfirmCheckoutCommand{
		SessionID:    sessionID,
		CallerUserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "checkout confirmed", nil)
}

// CreatePortalSession creates a billing portal session for the caller.
func (h *BillingHandler) CreatePortalSession(c *gin.Context) {
	userID, _, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	result, err := h.createPortalSessionUC.Execute(c.Request.Context(), billingUsecases.CreatePortalSessionCommand{
		UserID: userID,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", CheckoutURLResponse{URL: result.URL})
}

// HandleWebhook receives processor push events. The processor expects
// plain-text error bodies, not the JSON envelope the rest of the API
// uses, so failures respond with c.String.
func (h *BillingHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.logger.Warnw("failed to read webhook payload", "error", err)
		c.String(http.StatusBadRequest, "failed to read request body")
		return
	}

	signature := c.GetHeader(constants.StripeSignatureHeader)

	if err := h.handleWebhookUC.Execute(c.Request.Context(), payload, signature); err != nil {
		h.logger.Warnw("webhook processing failed", "error", err)
		if apperrors.IsValidationError(err) || apperrors.IsMissingMetadataError(err) {
			c.String(http.StatusBadRequest, "webhook verification failed")
			return
		}
		c.String(http.StatusInternalServerError, "webhook processing failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// callerIdentity pulls the authenticated identity out of the context.
func callerIdentity(c *gin.Context) (userID, role, email string, ok bool) {
	rawUserID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		utils.ErrorResponse(c, http.StatusUnauthorized, "user not authenticated")
		return "", "", "", false
	}

	userID, _ = rawUserID.(string)
	role = c.GetString(constants.ContextKeyUserRole)
	email = c.GetString(constants.ContextKeyUserEmail)
	return userID, role, email, true
}
