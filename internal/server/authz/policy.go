// Package authz is the authorization policy engine. Every protected
// operation routes its decision through Authorize before touching storage.
//
// The decision layers, in evaluation order: token class (a restricted
// session may only change its own password), role (admin-only actions),
// resource ownership, and resource lifecycle state (a COMPLETED record is
// locked for non-admins). The first matching rule wins.
package authz

import (
	"github.com/ddanilovs/inform/internal/common"
	"github.com/ddanilovs/inform/internal/server/auth"
	"github.com/ddanilovs/inform/internal/server/models"
)

// Action enumerates every protected operation of the server.
type Action int

const (
	ActionChangePassword Action = iota

	ActionCreateInform
	ActionListInforms
	ActionReadInform
	ActionEditInform
	ActionChangeInformStatus
	ActionDeleteInform

	ActionListTools
	ActionCreateTool

	ActionUploadAttachment
	ActionDownloadAttachment

	ActionManageUsers
)

// adminOnly lists the actions reserved for administrator identities.
var adminOnly = map[Action]bool{
	ActionCreateTool:         true,
	ActionDeleteInform:       true,
	ActionChangeInformStatus: true,
	ActionManageUsers:        true,
}

// ownerGated lists the actions a non-admin may perform only on records they
// created themselves.
var ownerGated = map[Action]bool{
	ActionReadInform: true,
	ActionEditInform: true,
}

// Resource is the point-in-time view of the target record the policy needs:
// who owns it and where it is in its lifecycle. Actions without a target
// pass nil.
type Resource struct {
	OwnerID string
	Status  string
}

// Authorize decides whether the session may perform the action on the
// resource. It returns nil on allow, common.ErrorUnauthorized when the
// session class alone disqualifies the request, and common.ErrorForbidden
// for role, ownership, and lifecycle denials.
func Authorize(session *auth.Session, action Action, resource *Resource) error {
	if session == nil {
		return common.ErrorUnauthorized
	}

	// A restricted session is indistinguishable from no session for every
	// action except the password change itself.
	if session.Kind == auth.SessionRestricted && action != ActionChangePassword {
		return common.ErrorUnauthorized
	}

	if session.IsAdmin() {
		return nil
	}

	if adminOnly[action] {
		return common.ErrorForbidden
	}

	if ownerGated[action] {
		if resource == nil || resource.OwnerID != session.UserID {
			return common.ErrorForbidden
		}
	}

	// Lifecycle lock: a completed record rejects edits from everyone but
	// admins, its owner included.
	if action == ActionEditInform && resource != nil && resource.Status == models.StatusCompleted {
		return common.ErrorForbidden
	}

	return nil
}
