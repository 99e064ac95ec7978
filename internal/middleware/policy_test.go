package middleware

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"loyalty-platform/internal/domain"
)

func TestCanAccess(t *testing.T) {
	ownerID := uuid.New()

	t.Run("owner may access own resource", func(t *testing.T) {
		user := &domain.User{ID: ownerID, Role: string(domain.RoleCustomer)}
		assert.True(t, CanAccess(user, ownerID))
	})

	t.Run("admin may access any resource", func(t *testing.T) {
		user := &domain.User{ID: uuid.New(), Role: string(domain.RoleAdmin)}
		assert.True(t, CanAccess(user, ownerID))
	})

	t.Run("other users are denied", func(t *testing.T) {
		user := &domain.User{ID: uuid.New(), Role: string(domain.RoleCustomer)}
		assert.False(t, CanAccess(user, ownerID))
	})

	t.Run("nil user is denied", func(t *testing.T) {
		assert.False(t, CanAccess(nil, ownerID))
	})
}
