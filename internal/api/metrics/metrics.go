// Package metrics defines and registers the custom Prometheus metrics for the
// storefront API. It is the single source of truth for metric names, labels
// and help strings.
//
// All metrics register with the default registry on package init via promauto,
// so they are exposed by the /metrics endpoint without further wiring.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "storefront"

// ── Auth metrics ──────────────────────────────────────────────────────────────

// AuthAttemptsTotal counts credential-based operations.
// Labels:
//   - operation: "register", "login" or "admin_login"
//   - result: "success", "invalid_credentials", "forbidden", "conflict", "invalid_input" or "error"
var AuthAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_attempts_total",
		Help:      "Total number of register and login attempts, by operation and result.",
	},
	[]string{"operation", "result"},
)

// TokensIssuedTotal counts tokens handed to clients.
// Label:
//   - reason: "register", "login", "admin_login", "profile_update" or "avatar_update"
var TokensIssuedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_issued_total",
		Help:      "Total number of session tokens issued, by reason.",
	},
	[]string{"reason"},
)

// GuardRejectionsTotal counts requests refused by the access guard.
// Label:
//   - reason: "missing_header", "invalid_token", "expired", "revoked", "user_gone" or "role_denied"
var GuardRejectionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "guard_rejections_total",
		Help:      "Total number of requests rejected by authentication or admin checks.",
	},
	[]string{"reason"},
)

// TokensRevokedTotal counts successful logouts.
var TokensRevokedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tokens_revoked_total",
		Help:      "Total number of tokens added to the deny-list.",
	},
)

// ── Admin metrics ─────────────────────────────────────────────────────────────

// UsersDeletedTotal counts accounts removed through the admin interface.
var UsersDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_deleted_total",
		Help:      "Total number of user accounts deleted by admins.",
	},
)

// ── Catalog metrics ───────────────────────────────────────────────────────────

// OrdersCreatedTotal counts orders placed.
var OrdersCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders placed.",
	},
)

// ImageUploadsTotal counts stored images.
// Label:
//   - kind: "avatar" or "product"
var ImageUploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "image_uploads_total",
		Help:      "Total number of images stored, by kind.",
	},
	[]string{"kind"},
)
