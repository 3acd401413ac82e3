package memory_test

import (
	"github.com/tinoosan/fintrack/internal/service/account"
	"github.com/tinoosan/fintrack/internal/service/applock"
	"github.com/tinoosan/fintrack/internal/service/backup"
	"github.com/tinoosan/fintrack/internal/service/balance"
	"github.com/tinoosan/fintrack/internal/service/category"
	"github.com/tinoosan/fintrack/internal/service/demo"
	"github.com/tinoosan/fintrack/internal/service/report"
	"github.com/tinoosan/fintrack/internal/service/settings"
	"github.com/tinoosan/fintrack/internal/service/transaction"
	"github.com/tinoosan/fintrack/internal/storage/memory"
)

// Compile-time assertions documenting which interfaces Store satisfies.
// They live in the external test package because every service tests against memory.
var (
	_ transaction.Repo   = (*memory.Store)(nil)
	_ transaction.Writer = (*memory.Store)(nil)
	_ balance.Repo       = (*memory.Store)(nil)
	_ account.Repo       = (*memory.Store)(nil)
	_ account.Writer     = (*memory.Store)(nil)
	_ category.Store     = (*memory.Store)(nil)
	_ settings.Repo      = (*memory.Store)(nil)
	_ report.Repo        = (*memory.Store)(nil)
	_ backup.Store       = (*memory.Store)(nil)
	_ demo.Store         = (*memory.Store)(nil)
	_ applock.Store      = (*memory.Store)(nil)
)
