// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package ledger

import "github.com/embercoin/emberd/infrastructure/logger"

var log = logger.RegisterSubSystem("LDGR")
