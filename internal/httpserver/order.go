package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/forcosplay/costume-shop/internal/domain"
	"github.com/forcosplay/costume-shop/internal/service"
	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/util"
)

type OrderHTTP struct {
	Checkout *service.CheckoutService
	Rentals  *service.RentalService
	Admin    *service.OrderAdminService
}

func (h *OrderHTTP) Checkout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.checkout")

	s, err := session(c)
	if err != nil {
		return err
	}

	var req transport.CheckoutRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("checkout_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Checkout.Checkout(ctx, s.AccountID, req.PaymentIntent)
	if err != nil {
		return fail(l, "checkout_error", err)
	}

	l.Info("checkout_success", "order_id", order.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Order placed successfully",
		"order":   order,
	})
}

func (h *OrderHTTP) ListOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_orders")

	s, err := session(c)
	if err != nil {
		return err
	}

	orders, err := h.Checkout.ListOrders(ctx, s.AccountID)
	if err != nil {
		return fail(l, "list_orders_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"orders": orders})
}

func (h *OrderHTTP) ListRentals(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_rentals")

	s, err := session(c)
	if err != nil {
		return err
	}

	rentals, err := h.Rentals.ListRentals(ctx, s.AccountID)
	if err != nil {
		return fail(l, "list_rentals_error", err)
	}
	return c.JSON(http.StatusOK, rentals)
}

func (h *OrderHTTP) ReturnRental(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.return_rental")

	s, err := session(c)
	if err != nil {
		return err
	}

	var req transport.ReturnRentalRequest
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		l.Warn("return_rental_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Rentals.ReturnRental(ctx, s.AccountID, s.IsAdmin(), req.OrderID); err != nil {
		return fail(l, "return_rental_error", err)
	}

	l.Info("return_rental_success", "order_id", req.OrderID)
	return c.JSON(http.StatusOK, messageResponse{Message: "Marked rental as returned successfully"})
}

func (h *OrderHTTP) UpdateRentalStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.update_rental_status")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("update_rental_status_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.RentalStatusRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_rental_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if !domain.ValidRentalStatus(req.RentalStatus) {
		l.Warn("update_rental_status_error", "status", 400, "reason", "invalid rental status", "rental_status", req.RentalStatus)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid rental status")
	}

	n, err := h.Rentals.UpdateRentalStatus(ctx, id, req.RentalStatus)
	if err != nil {
		return fail(l, "update_rental_status_error", err)
	}

	l.Info("update_rental_status_success", "order_id", id, "updated", n)
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Rental status updated",
		"updated": n,
	})
}

func (h *OrderHTTP) ListAllOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.list_all_orders")

	page := util.ParseIntDefault(c.QueryParam("page"), 1)
	size := util.ParseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	offset, limit := util.Calculate(page, size)

	total, orders, err := h.Admin.ListOrders(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_all_orders_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"data": orders,
		"meta": echo.Map{
			"page":  page,
			"size":  limit,
			"total": total,
		},
	})
}

func (h *OrderHTTP) ChangeOrderStatus(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "order.change_order_status")

	var req transport.OrderStatusRequest
	if err := c.Bind(&req); err != nil || req.OrderID == 0 {
		l.Warn("change_order_status_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	order, err := h.Admin.ChangeOrderStatus(ctx, req.OrderID, req.OrderStatus)
	if err != nil {
		return fail(l, "change_order_status_error", err)
	}
	return c.JSON(http.StatusOK, order)
}
