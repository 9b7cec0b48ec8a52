package studio

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/prima/internal/models"
)

// IdentityProvider supplies the operator identity from the messaging host.
type IdentityProvider interface {
	Identity(ctx context.Context) (models.User, error)
}

// RoleSource returns the stored role override.
type RoleSource interface {
	Role() (models.Role, error)
}

// Login resolves the current operator.
//
// The host identity is used when available, otherwise the placeholder user. The role always
// comes from roles and defaults to operator when it cannot be read.
func Login(ctx context.Context, host IdentityProvider, roles RoleSource, logger *log.Logger) models.User {
	user := models.PlaceholderUser()
	if host != nil {
		if u, err := host.Identity(ctx); err != nil {
			if logger != nil {
				logger.Debug("host identity unavailable, using placeholder", "error", err)
			}
		} else {
			user = u
		}
	}

	user.Role = models.RoleOperator
	if roles != nil {
		role, err := roles.Role()
		if err != nil && logger != nil {
			logger.Warn("failed to read role", "error", err)
		}
		if err == nil {
			user.Role = role
		}
	}
	return user
}
