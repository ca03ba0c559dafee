package middleware

import (
	"net/http"
	"strings"

	"otica/internal/apierror"
	"otica/internal/identity"
	"otica/internal/model"
	"otica/internal/repository"

	"github.com/gin-gonic/gin"
)

const (
	IdentityKey = "identity"
	ActorKey    = "actor"
)

// Auth verifies the Bearer token through the identity provider and resolves
// the local staff record. The provider's user id is written back to the
// staff row on first sight, linking invitation to account.
func Auth(provider identity.Provider, staffRepo repository.StaffRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("authentication required"))
			return
		}

		ident, err := provider.VerifyToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, apierror.New("invalid or expired token"))
			return
		}

		actor, err := staffRepo.FindByExternalID(c.Request.Context(), ident.UserID)
		if err != nil {
			// First login after an invite: the staff row exists by email but
			// has no provider id yet.
			actor, err = staffRepo.FindByEmail(c.Request.Context(), ident.OrganizationID, ident.Email)
			if err != nil {
				c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("no staff record for this account"))
				return
			}
			externalID := ident.UserID
			actor.ExternalID = &externalID
			_ = staffRepo.Update(c.Request.Context(), actor)
		}
		if !actor.IsActive || actor.OrganizationID != ident.OrganizationID {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("account is deactivated"))
			return
		}

		c.Set(IdentityKey, ident)
		c.Set(ActorKey, actor)
		c.Next()
	}
}

// RequireRole rejects requests whose staff role is not in the allowed list.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		actor, ok := c.MustGet(ActorKey).(*model.StaffMember)
		if !ok || !allowed[actor.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, apierror.New("insufficient permissions"))
			return
		}
		c.Next()
	}
}

// GetActor retrieves the resolved staff member from the Gin context.
func GetActor(c *gin.Context) *model.StaffMember {
	actor, _ := c.MustGet(ActorKey).(*model.StaffMember)
	return actor
}

// GetIdentity retrieves the verified token identity from the Gin context.
func GetIdentity(c *gin.Context) *identity.Identity {
	ident, _ := c.MustGet(IdentityKey).(*identity.Identity)
	return ident
}
