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
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/vaultdhq/vaultd/api/model"
	"github.com/vaultdhq/vaultd/internal/apierror"
	"github.com/vaultdhq/vaultd/model"
)

func (a Api) Deposit(c *gin.Context) {
	var newDeposit model2.RecordDeposit
	if err := c.ShouldBindJSON(&newDeposit); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newDeposit.ValidateRecordDeposit(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	amount, err := model.ParseAmount(newDeposit.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	event, err := a.vaultd.Deposit(c.Request.Context(), newDeposit.Account, amount)
	if err != nil {
		apiErr := apierror.FromDomain(err)
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	c.JSON(http.StatusCreated, event.Display(a.vaultd.Precision()))
}

func (a Api) Withdraw(c *gin.Context) {
	var newWithdrawal model2.RecordWithdrawal
	if err := c.ShouldBindJSON(&newWithdrawal); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	if err := newWithdrawal.ValidateRecordWithdrawal(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	amount, err := model.ParseAmount(newWithdrawal.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	event, err := a.vaultd.Withdraw(c.Request.Context(), newWithdrawal.Account, amount)
	if err != nil {
		apiErr := apierror.FromDomain(err)
		c.JSON(apierror.MapErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	c.JSON(http.StatusCreated, event.Display(a.vaultd.Precision()))
}

func (a Api) GetBalance(c *gin.Context) {
	account, passed := c.Params.Get("account")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "account is required. pass account in the route /balances/:account"})
		return
	}

	balance := a.vaultd.BalanceOf(c.Request.Context(), account)
	c.JSON(http.StatusOK, model2.BalanceResponse{
		Account: account,
		Balance: balance.String(),
		Display: model.ScaleAmount(balance, a.vaultd.Precision()),
	})
}

func (a Api) GetStats(c *gin.Context) {
	c.JSON(http.StatusOK, a.vaultd.Stats(c.Request.Context()))
}
