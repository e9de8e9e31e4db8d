package dispatch

import (
	"context"
	"encoding/json"

	"github.com/softalya/foodcourt/internal/domain"
)

func (d *Dispatcher) registerAccountOps() {
	d.register(Operation{
		Name:   "register",
		Handle: d.handleRegister,
	})
	d.register(Operation{
		Name:      "login",
		Throttled: true,
		Handle:    d.handleLogin,
	})
	d.register(Operation{
		Name:      "forgot_password",
		Throttled: true,
		Handle:    d.handleForgotPassword,
	})
	d.register(Operation{
		Name:   "reset_password",
		Handle: d.handleResetPassword,
	})
	d.register(Operation{
		Name:   "current_user",
		Gates:  []Gate{Authenticated()},
		Handle: d.handleCurrentUser,
	})
	d.register(Operation{
		Name:   "update_account",
		Gates:  []Gate{Authenticated()},
		Handle: d.handleUpdateAccount,
	})
	d.register(Operation{
		Name:   "list_addresses",
		Gates:  []Gate{Authenticated()},
		Handle: d.handleListAddresses,
	})
	d.register(Operation{
		Name:   "create_address",
		Gates:  []Gate{Authenticated()},
		Handle: d.handleCreateAddress,
	})
	d.register(Operation{
		Name:   "update_address",
		Gates:  []Gate{Authenticated()},
		Handle: d.handleUpdateAddress,
	})
	d.register(Operation{
		Name:   "delete_address",
		Gates:  []Gate{Authenticated()},
		Handle: d.handleDeleteAddress,
	})
}

func (d *Dispatcher) handleRegister(ctx context.Context, _ *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.RegisterRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	account, err := d.accountSvc.Register(ctx, &req)
	if err != nil {
		return nil, err
	}
	return map[string]any{"account": account.ToAccountInfo()}, nil
}

func (d *Dispatcher) handleLogin(ctx context.Context, _ *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.LoginRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return d.accountSvc.Login(ctx, &req)
}

func (d *Dispatcher) handleForgotPassword(ctx context.Context, _ *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.ForgotPasswordRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	if err := d.accountSvc.ForgotPassword(ctx, req.Email); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}

func (d *Dispatcher) handleResetPassword(ctx context.Context, _ *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.ResetPasswordRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	if err := d.accountSvc.ResetPassword(ctx, &req); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}

func (d *Dispatcher) handleCurrentUser(_ context.Context, ac *AuthContext, _ json.RawMessage) (any, error) {
	return ac.Account.ToAccountInfo(), nil
}

func (d *Dispatcher) handleUpdateAccount(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.UpdateAccountRequest
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	account, err := d.accountSvc.UpdateProfile(ctx, ac.AccountID(), &req)
	if err != nil {
		return nil, err
	}
	return account.ToAccountInfo(), nil
}

func (d *Dispatcher) handleListAddresses(ctx context.Context, ac *AuthContext, _ json.RawMessage) (any, error) {
	return d.accountSvc.ListAddresses(ctx, ac.AccountID())
}

func (d *Dispatcher) handleCreateAddress(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req domain.AddressInput
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return d.accountSvc.CreateAddress(ctx, ac.AccountID(), &req)
}

func (d *Dispatcher) handleUpdateAddress(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req struct {
		ID int64 `json:"id"`
		domain.AddressInput
	}
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	return d.accountSvc.UpdateAddress(ctx, ac.AccountID(), req.ID, &req.AddressInput)
}

func (d *Dispatcher) handleDeleteAddress(ctx context.Context, ac *AuthContext, payload json.RawMessage) (any, error) {
	var req struct {
		ID int64 `json:"id"`
	}
	if err := decode(payload, &req); err != nil {
		return nil, err
	}

	if err := d.accountSvc.DeleteAddress(ctx, ac.AccountID(), req.ID); err != nil {
		return nil, err
	}
	return map[string]bool{"success": true}, nil
}
