// Package waitercall implements the public waiter-call flow for
// QR-menu restaurant tables: guests scan a table's code and request
// service without authenticating, so the write path is protected by a
// per-table rate limit.
//
// The gate keeps a single last-admitted timestamp per table and admits
// a call only when the configured minimum interval has elapsed since
// the previous admitted call. The compare-and-set lives in the
// AdmissionStore (a conditional UPDATE in Postgres, a scripted SET in
// Redis) so that concurrent calls for the same table cannot both pass.
//
//	gate, err := waitercall.NewGate(waitercall.NewPGAdmissionStore(pool), cfg)
//	svc := waitercall.NewService(tables, requests, gate, waitercall.WithLogger(log))
//	r.Mount("/call", waitercall.Router(svc, log))
//
// An admitted call creates a service request and then flips the
// table's needs-service flag best-effort: the request row is the
// primary effect and a failed flag update downgrades the result to
// StatusMarked=false instead of failing the call.
package waitercall
