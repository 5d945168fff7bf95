package server

import (
	"math"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TransferRequest initiates a payout
type TransferRequest struct {
	Amount              float64 `json:"amount" validate:"gt=0"`
	Currency            string  `json:"currency,omitempty"`
	TransferType        string  `json:"transferType" validate:"required,oneof=bank_account mobile_money paystack_account"`
	RecipientType       string  `json:"recipientType" validate:"required,oneof=user external"`
	RecipientUserID     string  `json:"recipientUserId,omitempty" validate:"required_if=RecipientType user"`
	RecipientName       string  `json:"recipientName" validate:"required"`
	RecipientEmail      string  `json:"recipientEmail" validate:"required,email"`
	RecipientPhone      string  `json:"recipientPhone,omitempty"`
	BankCode            string  `json:"bankCode,omitempty" validate:"required_if=TransferType bank_account"`
	BankName            string  `json:"bankName,omitempty"`
	AccountNumber       string  `json:"accountNumber,omitempty" validate:"required_if=TransferType bank_account"`
	MobileMoneyProvider string  `json:"mobileMoneyProvider,omitempty" validate:"required_if=TransferType mobile_money"`
	MobileMoneyNumber   string  `json:"mobileMoneyNumber,omitempty" validate:"required_if=TransferType mobile_money"`
	Reason              string  `json:"reason,omitempty"`
}

// VerifyBankRequest identifies a bank account to resolve
type VerifyBankRequest struct {
	AccountNumber string `json:"accountNumber" validate:"required"`
	BankCode      string `json:"bankCode" validate:"required"`
}

// banks supported by the development backend
var banks = []gin.H{
	{"name": "Access Bank", "code": "280100", "slug": "access-bank"},
	{"name": "Absa Bank Ghana", "code": "030100", "slug": "absa-bank-ghana"},
	{"name": "Ecobank Ghana", "code": "130100", "slug": "ecobank-ghana"},
	{"name": "GCB Bank", "code": "040100", "slug": "gcb-bank"},
	{"name": "Stanbic Bank", "code": "190100", "slug": "stanbic-bank"},
	{"name": "MTN Mobile Money", "code": "MTN", "slug": "mtn-mobile-money"},
}

// transferFee is a flat 1% capped at 10
func transferFee(amount float64) float64 {
	return math.Min(round2(amount*0.01), 10)
}

// @Summary List transfers
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param status query string false "Status"
// @Param transferType query string false "Transfer type"
// @Param search query string false "Recipient name or email"
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/transfers [get]
func (s *Server) listTransfers(c *gin.Context) {
	page := queryInt(c, "page", 1)
	limit := queryInt(c, "limit", 20)
	status := c.Query("status")
	transferType := c.Query("transferType")
	search := strings.TrimSpace(c.Query("search"))

	var matched []doc
	for _, t := range s.docs.list(tableTransfers) {
		if status != "" && str(t, "status") != status {
			continue
		}
		if transferType != "" && str(t, "transferType") != transferType {
			continue
		}
		if search != "" && !containsFold(str(t, "recipientName"), search) && !containsFold(str(t, "recipientEmail"), search) {
			continue
		}
		matched = append(matched, t)
	}

	transfers, pages := paginate(matched, page, limit)
	respondOK(c, http.StatusOK, "", gin.H{
		"transfers":  transfers,
		"pagination": pagination(page, limit, len(matched), pages),
	})
}

// @Summary Transfer statistics
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Router /api/admin/transfers/stats [get]
func (s *Server) getTransferStats(c *gin.Context) {
	transfers := s.docs.list(tableTransfers)
	byStatus := func(status string) func(doc) bool {
		return func(d doc) bool { return str(d, "status") == status }
	}

	var amount, fees float64
	for _, t := range transfers {
		if str(t, "status") == "success" {
			amount += num(t, "amount")
			fees += num(t, "transferFee")
		}
	}

	respondOK(c, http.StatusOK, "", gin.H{
		"totalTransfers":      len(transfers),
		"successfulTransfers": countDocs(transfers, byStatus("success")),
		"pendingTransfers":    countDocs(transfers, byStatus("pending")),
		"failedTransfers":     countDocs(transfers, byStatus("failed")),
		"totalAmount":         formatAmount(amount),
		"totalFees":           formatAmount(fees),
	})
}

// @Summary Get transfer
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transfer ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/transfers/{id} [get]
func (s *Server) getTransfer(c *gin.Context) {
	t, ok := s.docs.get(tableTransfers, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Transfer not found")
		return
	}
	respondOK(c, http.StatusOK, "", t)
}

// @Summary Initiate transfer
// @Tags transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body TransferRequest true "Transfer"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 422 {object} map[string]interface{}
// @Router /api/admin/transfers [post]
func (s *Server) createTransfer(c *gin.Context) {
	var req TransferRequest
	if !s.bind(c, &req) {
		return
	}

	if req.RecipientType == "user" {
		if _, ok := s.docs.get(tableUsers, req.RecipientUserID); !ok {
			respondError(c, http.StatusBadRequest, "Recipient user not found")
			return
		}
	}

	fields, err := toDoc(req)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Currency == "" {
		fields["currency"] = "GHS"
	}

	admin := s.currentAdmin()
	fee := transferFee(req.Amount)
	fields["adminId"] = admin.ID
	fields["status"] = "pending"
	fields["transferFee"] = fee
	fields["totalAmount"] = round2(req.Amount + fee)
	fields["paystackReference"] = "TRF_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
	fields["admin"] = gin.H{"id": admin.ID, "email": admin.Email, "fullName": admin.FullName}

	t, err := s.docs.insert(tableTransfers, fields)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to create transfer")
		respondError(c, http.StatusInternalServerError, "Failed to create transfer")
		return
	}

	s.logger.Info().
		Str("transfer_id", str(t, "id")).
		Float64("amount", req.Amount).
		Str("transfer_type", req.TransferType).
		Msg("Transfer initiated")
	respondOK(c, http.StatusCreated, "Transfer initiated successfully", t)
}

// @Summary Cancel transfer
// @Description Only pending transfers can be cancelled
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Transfer ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/admin/transfers/{id}/cancel [patch]
func (s *Server) cancelTransfer(c *gin.Context) {
	current, ok := s.docs.get(tableTransfers, c.Param("id"))
	if !ok {
		respondError(c, http.StatusNotFound, "Transfer not found")
		return
	}
	if str(current, "status") != "pending" {
		respondError(c, http.StatusBadRequest, "Only pending transfers can be cancelled")
		return
	}

	t, _, err := s.docs.update(tableTransfers, c.Param("id"), doc{"status": "cancelled"})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to cancel transfer")
		return
	}
	respondOK(c, http.StatusOK, "Transfer cancelled successfully", t)
}

// @Summary List supported banks
// @Tags transfers
// @Produce json
// @Security BearerAuth
// @Success 200 {array} map[string]interface{}
// @Router /api/admin/transfers/banks [get]
func (s *Server) listBanks(c *gin.Context) {
	respondOK(c, http.StatusOK, "", banks)
}

// @Summary Verify bank account
// @Tags transfers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body VerifyBankRequest true "Account"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/admin/transfers/verify-bank [post]
func (s *Server) verifyBank(c *gin.Context) {
	var req VerifyBankRequest
	if !s.bind(c, &req) {
		return
	}

	for _, b := range banks {
		if b["code"] == req.BankCode {
			respondOK(c, http.StatusOK, "Account verified", gin.H{
				"accountNumber": req.AccountNumber,
				"accountName":   "SWIFT STAY TEST ACCOUNT",
				"bankName":      b["name"],
			})
			return
		}
	}
	respondError(c, http.StatusBadRequest, "Unknown bank code")
}
