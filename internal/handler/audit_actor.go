package handler

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"library-catalog/internal/middleware"
	"library-catalog/internal/model"
	"library-catalog/pkg/apierror"
)

// Audit actions.
const (
	actionLogin          = "auth.login"
	actionLogout         = "auth.logout"
	actionRegister       = "auth.register"
	actionUserCreate     = "user.create"
	actionUserUpdate     = "user.update"
	actionUserDelete     = "user.delete"
	actionPasswordChange = "user.password_change"
	actionRoleAssign     = "role.assign"
	actionRoleRemove     = "role.remove"
	actionAuthorCreate   = "author.create"
	actionAuthorUpdate   = "author.update"
	actionAuthorDelete   = "author.delete"
	actionPubCreate      = "publisher.create"
	actionPubUpdate      = "publisher.update"
	actionPubDelete      = "publisher.delete"
	actionBookCreate     = "book.create"
	actionBookUpdate     = "book.update"
	actionBookDelete     = "book.delete"
)

const (
	auditSuccess = "success"
	auditFailure = "failure"
)

type auditLogger interface {
	Log(ctx context.Context, action string, actor model.AuditActor, status string, resource string, before any, after any, errText string)
}

// recordAudit writes one audit entry for the outcome of a mutation. A nil
// logger disables auditing.
func recordAudit(a auditLogger, r *http.Request, action string, resource string, before any, after any, err error) {
	if a == nil {
		return
	}

	status, errText := auditSuccess, ""
	if err != nil {
		status = auditFailure
		errText = apierror.CodeInternal
		var apiErr *apierror.APIError
		if errors.As(err, &apiErr) && apiErr.HTTPStatus < http.StatusInternalServerError {
			errText = apiErr.Code + ": " + apiErr.Message
		}
	}

	a.Log(r.Context(), action, actorFromRequest(r), status, resource, before, after, errText)
}

func actorFromRequest(r *http.Request) model.AuditActor {
	actor := model.AuditActor{IP: clientIP(r)}

	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return actor
	}

	actor.UserID = claims.UserID
	return actor
}

func clientIP(r *http.Request) string {
	xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For"))
	if xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}

	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil {
		return host
	}

	return strings.TrimSpace(r.RemoteAddr)
}
