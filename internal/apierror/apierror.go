package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/vaultdhq/vaultd/model"
)

type ErrorCode string

const (
	ErrAmountZero             ErrorCode = "AMOUNT_ZERO"
	ErrBankCapExceeded        ErrorCode = "BANK_CAP_EXCEEDED"
	ErrWithdrawLimitExceeded  ErrorCode = "WITHDRAW_LIMIT_EXCEEDED"
	ErrInsufficientBalance    ErrorCode = "INSUFFICIENT_BALANCE"
	ErrDirectTransferDisabled ErrorCode = "DIRECT_TRANSFER_DISABLED"
	ErrTransferFailed         ErrorCode = "TRANSFER_FAILED"
	ErrReentrantCall          ErrorCode = "REENTRANT_CALL"
	ErrBadRequest             ErrorCode = "BAD_REQUEST"
	ErrInternalServer         ErrorCode = "INTERNAL_SERVER_ERROR"
)

type APIError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

func (e APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAPIError(code ErrorCode, message string, details interface{}) APIError {
	logrus.Error(details)
	return APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// FromDomain maps a vault error to its API representation. Parameterized
// rejections carry their parameters in Details.
func FromDomain(err error) APIError {
	var capErr *model.CapExceededError
	var limitErr *model.WithdrawLimitError
	var balErr *model.InsufficientBalanceError
	var transferErr *model.TransferFailedError

	switch {
	case errors.Is(err, model.ErrAmountZero):
		return NewAPIError(ErrAmountZero, err.Error(), nil)
	case errors.Is(err, model.ErrDirectTransferDisabled):
		return NewAPIError(ErrDirectTransferDisabled, err.Error(), nil)
	case errors.Is(err, model.ErrReentrantCall):
		return NewAPIError(ErrReentrantCall, err.Error(), nil)
	case errors.As(err, &capErr):
		return NewAPIError(ErrBankCapExceeded, capErr.Error(), map[string]string{
			"attempted": capErr.Attempted.String(),
			"cap":       capErr.Cap.String(),
		})
	case errors.As(err, &limitErr):
		return NewAPIError(ErrWithdrawLimitExceeded, limitErr.Error(), map[string]string{
			"amount": limitErr.Amount.String(),
			"limit":  limitErr.Limit.String(),
		})
	case errors.As(err, &balErr):
		return NewAPIError(ErrInsufficientBalance, balErr.Error(), map[string]string{
			"amount":  balErr.Amount.String(),
			"balance": balErr.Balance.String(),
		})
	case errors.As(err, &transferErr):
		return NewAPIError(ErrTransferFailed, transferErr.Error(), nil)
	default:
		return NewAPIError(ErrInternalServer, err.Error(), nil)
	}
}

func MapErrorToHTTPStatus(err error) int {
	if apiErr, ok := err.(APIError); ok {
		switch apiErr.Code {
		case ErrAmountZero, ErrBadRequest:
			return http.StatusBadRequest
		case ErrBankCapExceeded, ErrWithdrawLimitExceeded, ErrInsufficientBalance:
			return http.StatusConflict
		case ErrDirectTransferDisabled:
			return http.StatusNotFound
		case ErrReentrantCall:
			return http.StatusLocked
		case ErrTransferFailed:
			return http.StatusBadGateway
		case ErrInternalServer:
			return http.StatusInternalServerError
		default:
			return http.StatusInternalServerError
		}
	}
	return http.StatusInternalServerError
}
