package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/service"
	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
)

type CartHTTP struct {
	Svc      *service.CartService
	Payments *service.PaymentService
}

func (h *CartHTTP) ReplaceCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.replace_cart")

	s, err := session(c)
	if err != nil {
		return err
	}

	var req transport.ReplaceCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("replace_cart_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	total, err := h.Svc.ReplaceCart(ctx, s.AccountID, req.Cart)
	if err != nil {
		return fail(l, "replace_cart_error", err)
	}

	l.Info("replace_cart_success", "account_id", s.AccountID)
	return c.JSON(http.StatusOK, echo.Map{
		"message":    "Add Cart Success",
		"totalPrice": total.InexactFloat64(),
	})
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get_cart")

	s, err := session(c)
	if err != nil {
		return err
	}

	view, err := h.Svc.GetCart(ctx, s.AccountID)
	if err != nil {
		return fail(l, "get_cart_error", err)
	}
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) EmptyCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.empty_cart")

	s, err := session(c)
	if err != nil {
		return err
	}

	if err := h.Svc.EmptyCart(ctx, s.AccountID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return failWithStatus(l, "empty_cart_error", http.StatusBadRequest, errors.New("no cart found"))
		}
		return fail(l, "empty_cart_error", err)
	}

	l.Info("empty_cart_success", "account_id", s.AccountID)
	return c.JSON(http.StatusOK, messageResponse{Message: "Cart emptied successfully"})
}

func (h *CartHTTP) CreatePaymentIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.create_payment_intent")

	s, err := session(c)
	if err != nil {
		return err
	}

	secret, err := h.Payments.CreatePaymentIntent(ctx, s.AccountID)
	if err != nil {
		return fail(l, "create_payment_intent_error", err)
	}
	return c.JSON(http.StatusOK, transport.PaymentIntentResponse{ClientSecret: secret})
}
