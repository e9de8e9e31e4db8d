package dispatch

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/softalya/foodcourt/internal/auth"
	"github.com/softalya/foodcourt/internal/domain"
)

// AuthContext is the account resolved from the request's bearer token, valid
// for one request. Err records why resolution failed; gates fail closed on it.
type AuthContext struct {
	Account *domain.Account
	Err     error
}

// AccountID is safe to call only after the Authenticated gate passed.
func (ac *AuthContext) AccountID() int64 {
	if ac == nil || ac.Account == nil {
		return 0
	}
	return ac.Account.ID
}

// resolveAuth extracts, verifies, and looks up the token's subject. It never
// fails the request by itself; gates decide what a resolution failure means.
func (d *Dispatcher) resolveAuth(r *http.Request) *AuthContext {
	token, err := auth.BearerToken(r.Header.Get("Authorization"))
	if err != nil {
		return &AuthContext{Err: err}
	}

	claims, err := d.tokens.VerifyPurpose(token, auth.PurposeAccess)
	if err != nil {
		return &AuthContext{Err: err}
	}

	account, err := d.accounts.FindByID(r.Context(), claims.Sub)
	if err != nil {
		return &AuthContext{Err: fmt.Errorf("account lookup: %w", err)}
	}
	if account == nil {
		return &AuthContext{Err: errors.New("account not found")}
	}

	return &AuthContext{Account: account}
}

// Gate is a precondition evaluated before an operation body. Gates never
// mutate state and must return an error, never a truthy error object.
type Gate struct {
	Name  string
	Check func(ac *AuthContext) error
}

// Authenticated passes when the bearer token resolved to an existing, active
// account.
func Authenticated() Gate {
	return Gate{
		Name: "authenticated",
		Check: func(ac *AuthContext) error {
			if ac == nil {
				return errors.New("no auth context")
			}
			if ac.Err != nil {
				return ac.Err
			}
			if ac.Account == nil {
				return errors.New("no authenticated account")
			}
			if !ac.Account.IsActive {
				return errors.New("account is inactive")
			}
			return nil
		},
	}
}

// HasRole requires an already-resolved account of the given account type.
// Authenticated must precede it in the gate list; a missing account here is a
// failure, not a pass-through.
func HasRole(role string) Gate {
	return Gate{
		Name: "has_role:" + role,
		Check: func(ac *AuthContext) error {
			if ac == nil || ac.Account == nil {
				return errors.New("role check before authentication")
			}
			if ac.Account.AccountType != role {
				return fmt.Errorf("account type %s does not have role %s", ac.Account.AccountType, role)
			}
			return nil
		},
	}
}
