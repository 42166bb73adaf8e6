// Package api provides the JSON HTTP adapter.
//
// Routes:
//
//	GET  /api/papers?limit=            newest papers
//	GET  /api/papers/{pubkey}/{slug}   one paper
//	POST /api/papers                   submit a paper
//	GET  /api/topics                   topic catalogue
//	GET  /api/topics/{topic}           papers for a topic
//	GET  /api/search?q=                search papers
//	GET  /api/events/{id}/zaps         zap statistics
//	GET  /api/events/{id}/comments     comment count
//	GET  /api/users/{pubkey}/zaps      zaps sent and received
//	GET  /healthz                      liveness
//	GET  /metrics                      Prometheus metrics
//
// Errors are returned as {"error": "...", "retry": bool, "hint": "..."}.
package api
