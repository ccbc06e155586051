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
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/brianvoe/gofakeit/v6"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vaultdhq/vaultd"
	model2 "github.com/vaultdhq/vaultd/api/model"
	"github.com/vaultdhq/vaultd/config"
	"github.com/vaultdhq/vaultd/internal/apierror"
	"github.com/vaultdhq/vaultd/internal/request"
)

type TestRequest struct {
	Payload  io.Reader
	Router   *gin.Engine
	Response interface{}
	Method   string
	Route    string
	Header   map[string]string
}

func SetUpTestRequest(s TestRequest) (*httptest.ResponseRecorder, error) {
	req := httptest.NewRequest(s.Method, s.Route, s.Payload)
	for key, value := range s.Header {
		req.Header.Set(key, value)
	}
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	s.Router.ServeHTTP(resp, req)

	err := json.NewDecoder(resp.Body).Decode(&s.Response)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func setupRouter(t *testing.T, cnf *config.Configuration) *gin.Engine {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	if cnf == nil {
		cnf = &config.Configuration{}
	}
	cnf.Redis = config.RedisConfig{Dns: mr.Addr()}
	if cnf.Vault.CapacityLimit == "" {
		cnf.Vault.CapacityLimit = "3000000000000000000"
		cnf.Vault.WithdrawalLimit = "1000000000000000000"
	}
	config.MockConfig(cnf)

	newVaultd, err := vaultd.NewVaultd()
	require.NoError(t, err)
	return NewAPI(newVaultd).Router()
}

func TestDepositAPI(t *testing.T) {
	router := setupRouter(t, nil)
	account := gofakeit.UUID()

	payload, err := request.ToJsonReq(model2.RecordDeposit{Account: account, Amount: "2500000000000000000"})
	require.NoError(t, err)

	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload:  payload,
		Router:   router,
		Response: &response,
		Method:   http.MethodPost,
		Route:    "/deposits",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, account, response["account"])
	assert.Equal(t, "2.5", response["amount"])
	assert.Equal(t, "vault.deposited", response["type"])
}

func TestDepositAPICapExceeded(t *testing.T) {
	router := setupRouter(t, nil)

	payload, err := request.ToJsonReq(model2.RecordDeposit{Account: "alice", Amount: "2500000000000000000"})
	require.NoError(t, err)
	var ok map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &ok,
		Method: http.MethodPost, Route: "/deposits",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Code)

	payload, err = request.ToJsonReq(model2.RecordDeposit{Account: "bob", Amount: "600000000000000000"})
	require.NoError(t, err)
	var apiErr apierror.APIError
	resp, err = SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &apiErr,
		Method: http.MethodPost, Route: "/deposits",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, apierror.ErrBankCapExceeded, apiErr.Code)
}

func TestDepositAPIValidation(t *testing.T) {
	router := setupRouter(t, nil)

	tests := []struct {
		name    string
		deposit model2.RecordDeposit
	}{
		{name: "missing account", deposit: model2.RecordDeposit{Amount: "100"}},
		{name: "missing amount", deposit: model2.RecordDeposit{Account: "alice"}},
		{name: "fractional amount", deposit: model2.RecordDeposit{Account: "alice", Amount: "1.5"}},
		{name: "negative amount", deposit: model2.RecordDeposit{Account: "alice", Amount: "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := request.ToJsonReq(tt.deposit)
			require.NoError(t, err)
			var response map[string]interface{}
			resp, err := SetUpTestRequest(TestRequest{
				Payload: payload, Router: router, Response: &response,
				Method: http.MethodPost, Route: "/deposits",
			})
			require.NoError(t, err)
			assert.Equal(t, http.StatusBadRequest, resp.Code)
		})
	}
}

func TestDepositAPIZeroAmount(t *testing.T) {
	router := setupRouter(t, nil)

	payload, err := request.ToJsonReq(model2.RecordDeposit{Account: "alice", Amount: "0"})
	require.NoError(t, err)
	var apiErr apierror.APIError
	resp, err := SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &apiErr,
		Method: http.MethodPost, Route: "/deposits",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Equal(t, apierror.ErrAmountZero, apiErr.Code)
}

func TestWithdrawAPI(t *testing.T) {
	router := setupRouter(t, nil)
	account := gofakeit.UUID()

	payload, err := request.ToJsonReq(model2.RecordDeposit{Account: account, Amount: "2000000000000000000"})
	require.NoError(t, err)
	var ok map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &ok,
		Method: http.MethodPost, Route: "/deposits",
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.Code)

	// Per-call limit enforced
	payload, err = request.ToJsonReq(model2.RecordWithdrawal{Account: account, Amount: "1500000000000000000"})
	require.NoError(t, err)
	var apiErr apierror.APIError
	resp, err = SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &apiErr,
		Method: http.MethodPost, Route: "/withdrawals",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, apierror.ErrWithdrawLimitExceeded, apiErr.Code)

	// Within limit succeeds
	payload, err = request.ToJsonReq(model2.RecordWithdrawal{Account: account, Amount: "1000000000000000000"})
	require.NoError(t, err)
	var response map[string]interface{}
	resp, err = SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &response,
		Method: http.MethodPost, Route: "/withdrawals",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.Code)
	assert.Equal(t, "1", response["amount"])
	assert.Equal(t, "vault.withdrawn", response["type"])
}

func TestWithdrawAPIInsufficientBalance(t *testing.T) {
	router := setupRouter(t, nil)

	payload, err := request.ToJsonReq(model2.RecordWithdrawal{Account: "empty", Amount: "1"})
	require.NoError(t, err)
	var apiErr apierror.APIError
	resp, err := SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &apiErr,
		Method: http.MethodPost, Route: "/withdrawals",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusConflict, resp.Code)
	assert.Equal(t, apierror.ErrInsufficientBalance, apiErr.Code)
}

func TestGetBalanceAPI(t *testing.T) {
	router := setupRouter(t, nil)
	account := gofakeit.UUID()

	payload, err := request.ToJsonReq(model2.RecordDeposit{Account: account, Amount: "1000000000000000000"})
	require.NoError(t, err)
	var ok map[string]interface{}
	_, err = SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &ok,
		Method: http.MethodPost, Route: "/deposits",
	})
	require.NoError(t, err)

	var balance model2.BalanceResponse
	resp, err := SetUpTestRequest(TestRequest{
		Router: router, Response: &balance,
		Method: http.MethodGet, Route: fmt.Sprintf("/balances/%s", account),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, account, balance.Account)
	assert.Equal(t, "1000000000000000000", balance.Balance)
	assert.Equal(t, "1", balance.Display)
}

func TestGetBalanceAPIUnknownAccount(t *testing.T) {
	router := setupRouter(t, nil)

	var balance model2.BalanceResponse
	resp, err := SetUpTestRequest(TestRequest{
		Router: router, Response: &balance,
		Method: http.MethodGet, Route: "/balances/nobody",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "0", balance.Balance)
}

func TestGetStatsAPI(t *testing.T) {
	router := setupRouter(t, nil)

	var stats map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router: router, Response: &stats,
		Method: http.MethodGet, Route: "/stats",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, "1.0.0", stats["version"])
}

func TestUnrecognizedRouteRejectedAsDirectTransfer(t *testing.T) {
	router := setupRouter(t, nil)

	payload, err := request.ToJsonReq(map[string]string{"amount": "100"})
	require.NoError(t, err)
	var apiErr apierror.APIError
	resp, err := SetUpTestRequest(TestRequest{
		Payload: payload, Router: router, Response: &apiErr,
		Method: http.MethodPost, Route: "/transfers",
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusNotFound, resp.Code)
	assert.Equal(t, apierror.ErrDirectTransferDisabled, apiErr.Code)
}

func TestSecretKeyAuth(t *testing.T) {
	router := setupRouter(t, &config.Configuration{
		Server: config.ServerConfig{Secure: true, SecretKey: "test-secret"},
	})

	// Missing key
	var response map[string]interface{}
	resp, err := SetUpTestRequest(TestRequest{
		Router: router, Response: &response,
		Method: http.MethodGet, Route: "/stats",
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)

	// Valid key
	var stats map[string]interface{}
	resp, err = SetUpTestRequest(TestRequest{
		Router: router, Response: &stats,
		Method: http.MethodGet, Route: "/stats",
		Header: map[string]string{"X-Vaultd-Key": "test-secret"},
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Code)
}
