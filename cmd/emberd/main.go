// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/embercoin/emberd/blockchain"
	"github.com/embercoin/emberd/database"
	"github.com/embercoin/emberd/infrastructure/logger"
	"github.com/embercoin/emberd/ledger"
	"github.com/embercoin/emberd/version"
)

func main() {
	if err := emberdMain(); err != nil {
		os.Exit(1)
	}
}

// emberdMain is the real main function for emberd. It is necessary to work
// around the fact that deferred functions do not run when os.Exit() is
// called.
func emberdMain() error {
	interrupt := interruptListener()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return err
	}
	defer logger.Close()

	log.Infof("Version %s", version.Version())
	log.Infof("Active network: %s", cfg.params.Name)

	store, err := database.NewLevelDBStore(filepath.Join(cfg.DataDir, "blocks"))
	if err != nil {
		log.Errorf("Failed to open the block store: %s", err)
		return err
	}
	defer func() {
		log.Info("Gracefully shutting down the block store...")
		if err := store.Close(); err != nil {
			log.Errorf("Failed to close the block store: %s", err)
		}
	}()

	accountsLedger := ledger.New(cfg.params.BaseSubsidy)

	chain, err := blockchain.New(&blockchain.Config{
		Params:  cfg.params,
		Storage: store,
		Ledger:  accountsLedger,
	})
	if err != nil {
		log.Errorf("Failed to initialize the chain: %s", err)
		return err
	}

	if interruptRequested(interrupt) {
		return nil
	}

	if cfg.Generate {
		miner := newMiner(chain, cfg.miningAddr)
		miner.Start()
		defer miner.Stop()
	}

	// Wait until the interrupt signal is received from an OS signal.
	<-interrupt
	return nil
}
