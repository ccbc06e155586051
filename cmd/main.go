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

package main

import (
	"fmt"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vaultdhq/vaultd"
	"github.com/vaultdhq/vaultd/config"
	"github.com/vaultdhq/vaultd/internal/notification"
)

// Vaultd represents the CLI application, encapsulating the root Cobra command.
type Vaultd struct {
	cmd *cobra.Command
}

// vaultdInstance holds the running service and its configuration, shared
// between subcommands.
type vaultdInstance struct {
	vaultd *vaultd.Vaultd
	cnf    *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration and builds the service instance before any
// subcommand executes.
func preRun(app *vaultdInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig("vaultd.json")
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}

		newVaultd, err := vaultd.NewVaultd()
		if err != nil {
			notification.NotifyError(err)
			log.Fatal(err)
		}

		app.vaultd = newVaultd
		app.cnf = cnf

		return nil
	}
}

// NewCLI creates the command-line interface for the vaultd application.
func NewCLI() *Vaultd {
	var configFile string
	v := &vaultdInstance{}

	var rootCmd = &cobra.Command{
		Use:   "vaultd",
		Short: "Single-asset custodial vault",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "./vaultd.json", "Configuration file for vaultd")

	rootCmd.PersistentPreRunE = preRun(v)

	rootCmd.AddCommand(serverCommands(v))
	rootCmd.AddCommand(workerCommands(v))

	return &Vaultd{cmd: rootCmd}
}

func (w Vaultd) executeCLI() {
	if err := w.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
