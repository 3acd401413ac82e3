package transaction

import (
    "github.com/prometheus/client_golang/prometheus"
    "github.com/prometheus/client_golang/prometheus/promauto"
)

var (
    committedTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "fintrack",
            Name:      "transactions_committed_total",
            Help:      "Transactions written by the editor",
        },
        []string{"type", "op"},
    )
    rejectedTotal = promauto.NewCounterVec(
        prometheus.CounterOpts{
            Namespace: "fintrack",
            Name:      "transactions_rejected_total",
            Help:      "Transaction submissions rejected by validation",
        },
        []string{"reason"},
    )
)
