package middleware

import "expvar"

// Published under /api/debug/vars.
var (
	gateRejections = expvar.NewMap("auth_gate_rejections")
	gateAccepted   = expvar.NewInt("auth_gate_accepted")
	rateLimited    = expvar.NewInt("rate_limited_requests")
)

func countRejection(kind string) {
	gateRejections.Add(kind, 1)
}
