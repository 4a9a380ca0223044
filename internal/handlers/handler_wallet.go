package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jobhive/jobhive_backend/internal/core/domain"
	portssvc "github.com/jobhive/jobhive_backend/internal/core/ports/services"
	"github.com/jobhive/jobhive_backend/internal/dto"
	"github.com/jobhive/jobhive_backend/internal/middleware"
)

// walletHandler handles balance queries, transaction history, and the admin
// adjustment surface.
type walletHandler struct {
	walletService portssvc.WalletSvcFacade
	userService   portssvc.UserSvcFacade
}

func newWalletHandler(ws portssvc.WalletSvcFacade, us portssvc.UserSvcFacade) *walletHandler {
	return &walletHandler{walletService: ws, userService: us}
}

// registerWalletRoutes registers all wallet-related routes.
func registerWalletRoutes(rg *gin.RouterGroup, walletService portssvc.WalletSvcFacade, userService portssvc.UserSvcFacade) {
	h := newWalletHandler(walletService, userService)

	wallets := rg.Group("/wallets")
	{
		wallets.GET("/me", h.getOwnWallet)
		wallets.GET("/me/transactions", h.listOwnTransactions)
		wallets.GET("/:userID/balance", h.getBalance)
		wallets.POST("/:userID/adjust", h.adjustBalance)
		wallets.PUT("/:userID/balance", h.setBalance)
	}
}

func (h *walletHandler) requireAdmin(c *gin.Context) (string, bool) {
	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return "", false
	}
	actor, err := h.userService.GetUserByID(c.Request.Context(), loggedInUserID)
	if err != nil || actor.Role != domain.RoleAdmin {
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "Admin privileges required"})
		return "", false
	}
	return loggedInUserID, true
}

// getOwnWallet godoc
// @Summary Get own wallet
// @Description Returns the caller's wallet, creating a zero-balance one if absent.
// @Tags wallets
// @Produce json
// @Success 200 {object} dto.WalletResponse
// @Security BearerAuth
// @Router /wallets/me [get]
func (h *walletHandler) getOwnWallet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	wallet, err := h.walletService.GetOrCreateWallet(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve wallet")
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// listOwnTransactions godoc
// @Summary List own transaction history
// @Description Returns the caller's ledger entries, most recent first.
// @Tags wallets
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param nextToken query string false "Pagination token"
// @Success 200 {object} dto.ListTransactionsResponse
// @Security BearerAuth
// @Router /wallets/me/transactions [get]
func (h *walletHandler) listOwnTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	userID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.walletService.ListTransactions(c.Request.Context(), userID, params)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to list transactions")
		return
	}
	c.JSON(http.StatusOK, resp)
}

// getBalance godoc
// @Summary Get a user's balance
// @Description Returns a user's balance. Own balance, or any balance for admins.
// @Tags wallets
// @Produce json
// @Param userID path string true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallets/{userID}/balance [get]
func (h *walletHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	targetUserID := c.Param("userID")

	loggedInUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}
	if loggedInUserID != targetUserID {
		actor, err := h.userService.GetUserByID(c.Request.Context(), loggedInUserID)
		if err != nil || actor.Role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "Forbidden"})
			return
		}
	}

	balance, err := h.walletService.GetBalance(c.Request.Context(), targetUserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{"userID": targetUserID, "balance": balance})
}

// adjustBalance godoc
// @Summary Manually adjust a user's balance
// @Description Applies a signed delta to a user's wallet (admin only). The
// @Description wallet update and its log entry commit atomically.
// @Tags wallets
// @Accept json
// @Produce json
// @Param userID path string true "Target user ID"
// @Param adjustment body dto.AdjustBalanceRequest true "Signed amount and description"
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} ErrorResponse "Validation or insufficient funds"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallets/{userID}/adjust [post]
func (h *walletHandler) adjustBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	var req dto.AdjustBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	targetUserID := c.Param("userID")
	wallet, err := h.walletService.AdminAdjustBalance(c.Request.Context(), targetUserID, req, actorUserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to adjust balance")
		return
	}

	logger.Info("Balance adjusted", slog.String("target_user_id", targetUserID), slog.String("amount", req.Amount.String()))
	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}

// setBalance godoc
// @Summary Set a user's balance
// @Description Sets an absolute wallet balance (admin only).
// @Tags wallets
// @Accept json
// @Produce json
// @Param userID path string true "Target user ID (or wallet ID when isWalletID)"
// @Param balance body dto.SetBalanceRequest true "New balance"
// @Success 200 {object} dto.WalletResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /wallets/{userID}/balance [put]
func (h *walletHandler) setBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorUserID, ok := h.requireAdmin(c)
	if !ok {
		return
	}

	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	wallet, err := h.walletService.SetBalance(c.Request.Context(), c.Param("userID"), req, actorUserID)
	if err != nil {
		handleServiceError(c, logger, err, "Failed to set balance")
		return
	}
	c.JSON(http.StatusOK, dto.ToWalletResponse(wallet))
}
