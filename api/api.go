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
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/vaultdhq/vaultd"
	"github.com/vaultdhq/vaultd/api/middleware"
	"github.com/vaultdhq/vaultd/config"
	"github.com/vaultdhq/vaultd/internal/apierror"
)

type Api struct {
	vaultd *vaultd.Vaultd
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/deposits", a.Deposit)
	router.POST("/withdrawals", a.Withdraw)
	router.GET("/balances/:account", a.GetBalance)
	router.GET("/stats", a.GetStats)
	return a.router
}

func NewAPI(v *vaultd.Vaultd) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware(conf.ProjectName))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware())
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, "server running...")
	})

	// The vault accepts value only through its deposit entry point. Any
	// unrecognized call is treated as an attempted direct transfer and
	// rejected uniformly.
	rejectDirect := func(c *gin.Context) {
		apiErr := apierror.NewAPIError(apierror.ErrDirectTransferDisabled,
			"direct transfers are disabled, value must enter through POST /deposits", nil)
		c.JSON(http.StatusNotFound, apiErr)
	}
	r.NoRoute(rejectDirect)
	r.NoMethod(rejectDirect)

	return &Api{vaultd: v, router: r}
}
