package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	subdto "tablier/internal/application/subscription/dto"
	"tablier/internal/application/subscription/usecases"
	"tablier/internal/shared/logger"
	"tablier/internal/shared/utils"
)

// SubscriptionHandler handles subscription queries and the
// administrative operations.
type SubscriptionHandler struct {
	getCurrentUC      *usecases.GetCurrentSubscriptionUseCase
	refreshStatusesUC *usecases.RefreshStatusesUseCase
	listUC            *usecases.ListSubscriptionsUseCase
	createUC          *usecases.CreateSubscriptionUseCase
	updateUC          *usecases.UpdateSubscriptionUseCase
	blockUC           *usecases.BlockSubscriptionUseCase
	unblockUC         *usecases.UnblockSubscriptionUseCase
	logger            logger.Interface
}

func NewSubscriptionHandler(
	getCurrentUC *usecases.GetCurrentSubscriptionUseCase,
	refreshStatusesUC *usecases.RefreshStatusesUseCase,
	listUC *usecases.ListSubscriptionsUseCase,
	createUC *usecases.CreateSubscriptionUseCase,
	updateUC *usecases.UpdateSubscriptionUseCase,
	blockUC *usecases.BlockSubscriptionUseCase,
	unblockUC *usecases.UnblockSubscriptionUseCase,
	logger logger.Interface,
) *SubscriptionHandler {
	return &SubscriptionHandler{
		getCurrentUC:      getCurrentUC,
		refreshStatusesUC: refreshStatusesUC,
		listUC:            listUC,
		createUC:          createUC,
		updateUC:          updateUC,
		blockUC:           blockUC,
		unblockUC:         unblockUC,
		logger:            logger,
	}
}

// GetCurrent returns the caller's current subscription, or the free
// default when no row exists.
func (h *SubscriptionHandler) GetCurrent(c *gin.Context) {
	userID, role, _, ok := callerIdentity(c)
	if !ok {
		return
	}

	sub, err := h.getCurrentUC.Execute(c.Request.Context(), usecases.GetCurrentSubscriptionCommand{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		h.logger.Errorw("failed to get current subscription", "error", err, "user_id", userID)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", subdto.ToSubscriptionDTO(sub))
}

// RefreshStatuses sweeps all rows and persists date-driven status
// transitions. Admin only.
func (h *SubscriptionHandler) RefreshStatuses(c *gin.Context) {
	changed, err := h.refreshStatusesUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to refresh subscription statuses", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", subdto.RefreshResultDTO{
		Changed:       len(changed),
		Subscriptions: subdto.ToSubscriptionDTOList(changed),
	})
}

// List returns every subscription row. Admin only.
func (h *SubscriptionHandler) List(c *gin.Context) {
	subs, err := h.listUC.Execute(c.Request.Context())
	if err != nil {
		h.logger.Errorw("failed to list subscriptions", "error", err)
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", subdto.ToSubscriptionDTOList(subs))
}

// Create creates a subscription through the administrative path.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var cmd usecases.CreateSubscriptionCommand
	if err := c.ShouldBindJSON(&cmd); err != nil {
		h.logger.Warnw("invalid request body for create subscription", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := utils.ValidateStruct(cmd); err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	sub, err := h.createUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.CreatedResponse(c, subdto.ToSubscriptionDTO(sub), "subscription created")
}

// Update applies an allow-listed partial update. Admin only.
func (h *SubscriptionHandler) Update(c *gin.Context) {
	subscriptionID, ok := pathID(c)
	if !ok {
		return
	}

	// The update surface is an explicit allow list; a body with keys we
	// do not know is rejected rather than silently trimmed.
	decoder := json.NewDecoder(c.Request.Body)
	decoder.DisallowUnknownFields()

	var cmd usecases.UpdateSubscriptionCommand
	if err := decoder.Decode(&cmd); err != nil {
		h.logger.Warnw("invalid request body for update subscription", "error", err)
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid request body")
		return
	}
	cmd.SubscriptionID = subscriptionID

	sub, err := h.updateUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription updated", subdto.ToSubscriptionDTO(sub))
}

// Block forces a subscription into the blocked status. Admin only.
func (h *SubscriptionHandler) Block(c *gin.Context) {
	subscriptionID, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.blockUC.Execute(c.Request.Context(), subscriptionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription blocked", subdto.ToSubscriptionDTO(sub))
}

// Unblock reverses an explicit block. Admin only.
func (h *SubscriptionHandler) Unblock(c *gin.Context) {
	subscriptionID, ok := pathID(c)
	if !ok {
		return
	}

	sub, err := h.unblockUC.Execute(c.Request.Context(), subscriptionID)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "subscription unblocked", subdto.ToSubscriptionDTO(sub))
}

func pathID(c *gin.Context) (uint, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, "invalid subscription ID")
		return 0, false
	}
	return uint(id), true
}
