// Package main API metadata for swag.
//
// @title Threads Auto-Reply API
// @version 1.0
// @description Keyword-triggered auto-replies for Threads posts: account connection, rules, templates, history, and scheduler-driven jobs.
// @description
// @description ## Identity
// @description
// @description Requests carry the acting user in the X-User-ID header (demo mode). Without it, "demo-user" is assumed.
// @description
// @description ## Idempotency
// @description
// @description POST /replies accepts an Idempotency-Key header; retries with the same key replay the stored result instead of sending twice.
// @description
// @description ## Errors
// @description
// @description Error responses carry a stable machine-readable code next to the human message:
// @description ```json
// @description {"code": "not_found", "message": "account not found"}
// @description ```
//
// @contact.name API Support
//
// @BasePath /api
//
// @tag.name Auth
// @tag.description Threads OAuth connection flow
//
// @tag.name Accounts
// @tag.description Connected Threads accounts
//
// @tag.name Rules
// @tag.description Keyword-triggered auto-reply rules
//
// @tag.name Templates
// @tag.description Reusable reply bodies
//
// @tag.name History
// @tag.description Reply log and dashboard statistics
//
// @tag.name Replies
// @tag.description Immediate manual replies
//
// @tag.name Jobs
// @tag.description Scheduler-facing pipeline triggers
package main
