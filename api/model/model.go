/*
Copyright 2025 Vaultd Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package model

import (
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// amountPattern accepts base-10 integer amounts in the native unit. Zero is
// syntactically valid here; the vault core rejects it with its own error.
var amountPattern = regexp.MustCompile(`^[0-9]+$`)

// RecordDeposit is the request body for POST /deposits. Amount is a string
// so callers are not bounded by JSON number precision.
type RecordDeposit struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

func (d *RecordDeposit) ValidateRecordDeposit() error {
	return validation.ValidateStruct(d,
		validation.Field(&d.Account, validation.Required),
		validation.Field(&d.Amount, validation.Required, validation.Match(amountPattern).Error("must be a base-10 integer amount")),
	)
}

// RecordWithdrawal is the request body for POST /withdrawals.
type RecordWithdrawal struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

func (w *RecordWithdrawal) ValidateRecordWithdrawal() error {
	return validation.ValidateStruct(w,
		validation.Field(&w.Account, validation.Required),
		validation.Field(&w.Amount, validation.Required, validation.Match(amountPattern).Error("must be a base-10 integer amount")),
	)
}

// BalanceResponse is the body returned for GET /balances/:account.
type BalanceResponse struct {
	Account string `json:"account"`
	Balance string `json:"balance"`
	Display string `json:"display"`
}
