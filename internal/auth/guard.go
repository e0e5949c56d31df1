package auth

import "fmt"

// Policy decides whether a verified claim may act on a target resource.
// A nil target means the operation has no particular resource to check
// against.
type Policy func(claims *Claims, target Owned) bool

// Authenticated admits any verified claim.
func Authenticated() Policy {
	return func(*Claims, Owned) bool { return true }
}

// RoleIs admits claims carrying one of the given roles.
func RoleIs(roles ...Role) Policy {
	return func(claims *Claims, _ Owned) bool {
		for _, role := range roles {
			if claims.Role == role {
				return true
			}
		}

		return false
	}
}

// OwnerOrAdmin admits admins unconditionally and everyone else only on
// resources they own.
func OwnerOrAdmin() Policy {
	return func(claims *Claims, target Owned) bool {
		if claims.Role == RoleAdmin {
			return true
		}

		return target != nil && target.OwnedBy() == claims.UserID
	}
}

// Guard wraps protected operations: verify the token, then apply a
// policy predicate. It never mutates resource state itself.
type Guard struct {
	service *Service
}

func NewGuard(service *Service) *Guard {
	return &Guard{service: service}
}

// Authorize verifies the raw token and applies the policy against the
// target. Verification errors pass through unchanged; a false policy
// yields ErrForbidden.
func (g *Guard) Authorize(tokenString string, target Owned, policy Policy) (*Claims, error) {
	claims, err := g.service.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	if reqErr := g.Require(claims, target, policy); reqErr != nil {
		return nil, reqErr
	}

	return claims, nil
}

// Require applies a policy to already-verified claims.
func (g *Guard) Require(claims *Claims, target Owned, policy Policy) error {
	if claims == nil {
		return ErrTokenInvalid
	}

	if !policy(claims, target) {
		return fmt.Errorf("%w: %s may not perform this operation", ErrForbidden, claims.Username)
	}

	return nil
}
