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

package vaultd

import (
	"context"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"github.com/vaultdhq/vaultd/config"
	"github.com/vaultdhq/vaultd/internal/request"
	"github.com/vaultdhq/vaultd/model"
)

// settlementInstruction is the payload posted to the settlement rail for
// each withdrawal payout.
type settlementInstruction struct {
	Account string `json:"account"`
	Amount  string `json:"amount"`
}

// SettlementTransferer pays withdrawals out over HTTP to the configured
// settlement rail, retrying transient failures with exponential backoff.
// A terminal client rejection or exhausted retries fails the transfer,
// which rolls the withdrawal back. With no settlement URL configured,
// payouts settle inside the custodian and always succeed.
type SettlementTransferer struct {
	client *http.Client
}

func NewSettlementTransferer() *SettlementTransferer {
	return &SettlementTransferer{client: &http.Client{}}
}

func (s *SettlementTransferer) Transfer(ctx context.Context, account string, amount *big.Int) error {
	conf, err := config.Fetch()
	if err != nil {
		return err
	}
	if conf.Settlement.Url == "" {
		return nil
	}

	s.client.Timeout = time.Duration(conf.Settlement.TimeoutSec) * time.Second

	payout := func() error {
		body, err := request.ToJsonReq(settlementInstruction{
			Account: account,
			Amount:  amount.String(),
		})
		if err != nil {
			return backoff.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, conf.Settlement.Url, body)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		for key, value := range conf.Settlement.Headers {
			req.Header.Set(key, value)
		}

		resp, err := s.client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return nil
		}
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// The rail rejected the instruction outright, retrying won't help.
			return backoff.Permanent(fmt.Errorf("settlement rejected payout with status %d", resp.StatusCode))
		}
		return fmt.Errorf("settlement returned status %d", resp.StatusCode)
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), conf.Settlement.MaxRetries),
		ctx,
	)
	if err := backoff.Retry(payout, policy); err != nil {
		logrus.Errorf("settlement payout for account %s failed: %v", account, err)
		return err
	}
	return nil
}

var _ model.Transferer = (*SettlementTransferer)(nil)
