package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Transfer types
const (
	TransferBankAccount     = "bank_account"
	TransferMobileMoney     = "mobile_money"
	TransferPaystackAccount = "paystack_account"
)

// TransferAdmin is the admin who initiated a transfer
type TransferAdmin struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}

// Transfer is a payout to a user or an external recipient
type Transfer struct {
	ID                   string         `json:"id"`
	AdminID              string         `json:"adminId"`
	Amount               Amount         `json:"amount"`
	Currency             string         `json:"currency"`
	TransferType         string         `json:"transferType"`
	RecipientType        string         `json:"recipientType"`
	RecipientUserID      string         `json:"recipientUserId,omitempty"`
	RecipientName        string         `json:"recipientName"`
	RecipientEmail       string         `json:"recipientEmail"`
	RecipientPhone       string         `json:"recipientPhone,omitempty"`
	BankCode             string         `json:"bankCode,omitempty"`
	BankName             string         `json:"bankName,omitempty"`
	AccountNumber        string         `json:"accountNumber,omitempty"`
	MobileMoneyProvider  string         `json:"mobileMoneyProvider,omitempty"`
	MobileMoneyNumber    string         `json:"mobileMoneyNumber,omitempty"`
	PaystackTransferCode string         `json:"paystackTransferCode,omitempty"`
	PaystackReference    string         `json:"paystackReference,omitempty"`
	Status               string         `json:"status"`
	Reason               string         `json:"reason,omitempty"`
	FailureReason        string         `json:"failureReason,omitempty"`
	TransferFee          Amount         `json:"transferFee"`
	TotalAmount          Amount         `json:"totalAmount"`
	ProcessedAt          string         `json:"processedAt,omitempty"`
	CreatedAt            string         `json:"createdAt,omitempty"`
	UpdatedAt            string         `json:"updatedAt,omitempty"`
	Admin                *TransferAdmin `json:"admin,omitempty"`
}

// TransferList is one page of transfers
type TransferList struct {
	Transfers  []Transfer `json:"transfers"`
	Pagination Pagination `json:"pagination"`
}

// TransferFilter selects transfers. Zero values are not sent.
type TransferFilter struct {
	Page         int    `url:"page,omitempty"`
	Limit        int    `url:"limit,omitempty"`
	Status       string `url:"status,omitempty"`
	TransferType string `url:"transferType,omitempty"`
	Search       string `url:"search,omitempty"`
}

// TransferStats are the transfer counters
type TransferStats struct {
	TotalTransfers      Count  `json:"totalTransfers"`
	SuccessfulTransfers Count  `json:"successfulTransfers"`
	PendingTransfers    Count  `json:"pendingTransfers"`
	FailedTransfers     Count  `json:"failedTransfers"`
	TotalAmount         Amount `json:"totalAmount"`
	TotalFees           Amount `json:"totalFees"`
}

// TransferInput is the body for initiating a transfer. Bank transfers need a bank code and
// account number, mobile money transfers need a provider and number.
type TransferInput struct {
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

// Bank is a bank supported for transfers
type Bank struct {
	Name string `json:"name"`
	Code string `json:"code"`
	Slug string `json:"slug,omitempty"`
}

// BankAccountInput identifies a bank account to verify
type BankAccountInput struct {
	AccountNumber string `json:"accountNumber" validate:"required"`
	BankCode      string `json:"bankCode" validate:"required"`
}

// ListTransfers returns transfers matching f
func (c *Client) ListTransfers(ctx context.Context, f TransferFilter) (*Envelope[TransferList], error) {
	return call[TransferList](ctx, c, "/admin/transfers", RequestOptions{Query: f})
}

// TransferStats returns the transfer counters
func (c *Client) TransferStats(ctx context.Context) (*Envelope[TransferStats], error) {
	return call[TransferStats](ctx, c, "/admin/transfers/stats", RequestOptions{})
}

// GetTransfer returns one transfer
func (c *Client) GetTransfer(ctx context.Context, id string) (*Envelope[Transfer], error) {
	return call[Transfer](ctx, c, "/admin/transfers/"+url.PathEscape(id), RequestOptions{})
}

// CreateTransfer initiates a transfer
func (c *Client) CreateTransfer(ctx context.Context, in TransferInput) (*Envelope[Transfer], error) {
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[Transfer](ctx, c, "/admin/transfers", RequestOptions{Method: http.MethodPost, Body: in})
}

// CancelTransfer cancels a pending transfer
func (c *Client) CancelTransfer(ctx context.Context, id string) (*Envelope[Transfer], error) {
	return call[Transfer](ctx, c, "/admin/transfers/"+url.PathEscape(id)+"/cancel", RequestOptions{Method: http.MethodPatch})
}

// ListBanks returns the banks supported for transfers
func (c *Client) ListBanks(ctx context.Context) (*Envelope[[]Bank], error) {
	return call[[]Bank](ctx, c, "/admin/transfers/banks", RequestOptions{})
}

// VerifyBankAccount resolves the account holder of a bank account
func (c *Client) VerifyBankAccount(ctx context.Context, accountNumber, bankCode string) (*Envelope[json.RawMessage], error) {
	in := BankAccountInput{AccountNumber: accountNumber, BankCode: bankCode}
	if err := checkPayload(in); err != nil {
		return nil, err
	}
	return call[json.RawMessage](ctx, c, "/admin/transfers/verify-bank", RequestOptions{Method: http.MethodPost, Body: in})
}
