package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forcosplay/costume-shop/internal/service"
	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/tokens"
)

type AccountHTTP struct {
	Svc           *service.AccountService
	SecureCookies bool
}

func (h *AccountHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.Register(ctx, req); err != nil {
		return fail(l, "register_error", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Register Success"})
}

func (h *AccountHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req)
	if err != nil {
		return fail(l, "login_error", err)
	}

	c.SetCookie(tokens.AccessCookie(res.AccessToken, res.AccessExp, h.SecureCookies))
	l.Info("login_success", "account_id", res.Account.ID)

	return c.JSON(http.StatusOK, transport.LoginResponse{
		Token: res.AccessToken,
		Payload: transport.SessionPayload{
			ID:    res.Account.ID,
			Email: res.Account.Email,
			Name:  res.Account.Name,
			Role:  res.Account.Role,
		},
	})
}

func (h *AccountHTTP) Logout(c echo.Context) error {
	c.SetCookie(tokens.ClearAccessCookie(h.SecureCookies))
	return c.JSON(http.StatusOK, messageResponse{Message: "logged out"})
}

// CurrentAccount serves both current-user and current-admin; the route's
// middleware decides who gets through.
func (h *AccountHTTP) CurrentAccount(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.current")

	s, err := session(c)
	if err != nil {
		return err
	}

	account, err := h.Svc.Profile(ctx, s.AccountID)
	if err != nil {
		return fail(l, "current_account_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"user": account})
}

func (h *AccountHTTP) Profile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.profile")

	s, err := session(c)
	if err != nil {
		return err
	}

	account, err := h.Svc.Profile(ctx, s.AccountID)
	if err != nil {
		return fail(l, "profile_error", err)
	}
	return c.JSON(http.StatusOK, account)
}

func (h *AccountHTTP) UpdateProfile(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.update_profile")

	s, err := session(c)
	if err != nil {
		return err
	}

	var req transport.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_profile_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	account, err := h.Svc.UpdateProfile(ctx, s.AccountID, req)
	if err != nil {
		return fail(l, "update_profile_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Profile updated successfully", "user": account})
}

func (h *AccountHTTP) SaveAddress(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.save_address")

	s, err := session(c)
	if err != nil {
		return err
	}

	var req transport.AddressRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("save_address_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.SaveAddress(ctx, s.AccountID, req.Address); err != nil {
		return fail(l, "save_address_error", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Address updated successfully"})
}

func (h *AccountHTTP) ListUsers(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.list_users")

	accounts, err := h.Svc.ListAccounts(ctx)
	if err != nil {
		return fail(l, "list_users_error", err)
	}
	return c.JSON(http.StatusOK, accounts)
}

func (h *AccountHTTP) ChangeStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.change_status")

	var req transport.ChangeStatusRequest
	if err := c.Bind(&req); err != nil || req.ID == 0 || req.Enabled == nil {
		l.Warn("change_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.ChangeStatus(ctx, req.ID, *req.Enabled); err != nil {
		return fail(l, "change_status_error", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Update Status Success"})
}

func (h *AccountHTTP) ChangeRole(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "account.change_role")

	var req transport.ChangeRoleRequest
	if err := c.Bind(&req); err != nil || req.ID == 0 {
		l.Warn("change_role_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if _, err := h.Svc.ChangeRole(ctx, req.ID, req.Role); err != nil {
		return fail(l, "change_role_error", err)
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Update Role Success"})
}
