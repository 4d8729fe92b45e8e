package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/forcosplay/costume-shop/internal/service"
	"github.com/forcosplay/costume-shop/internal/transport"
	"github.com/forcosplay/costume-shop/pkg/logging"
	"github.com/forcosplay/costume-shop/pkg/util"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func (h *CatalogHTTP) CreateCostume(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_costume")

	s, err := session(c)
	if err != nil {
		return err
	}

	var req transport.CreateCostumeRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_costume_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	costume, err := h.Svc.CreateCostume(ctx, s.AccountID, req)
	if err != nil {
		return fail(l, "create_costume_error", err)
	}

	l.Info("create_costume_success", "costume_id", costume.ID)
	return c.JSON(http.StatusCreated, costume)
}

func (h *CatalogHTTP) ListCostumes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_costumes")

	count, err := strconv.Atoi(c.Param("count"))
	if err != nil || count < 1 {
		l.Warn("list_costumes_error", "status", 400, "reason", "count is not a positive integer")
		return echo.NewHTTPError(http.StatusBadRequest, "count is not a positive integer")
	}
	offset, limit := util.Calculate(1, count)

	_, items, err := h.Svc.ListCostumes(ctx, offset, limit)
	if err != nil {
		return fail(l, "list_costumes_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetCostume(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_costume")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_costume_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	costume, err := h.Svc.GetCostume(ctx, id)
	if err != nil {
		return fail(l, "get_costume_error", err)
	}
	return c.JSON(http.StatusOK, costume)
}

func (h *CatalogHTTP) PatchCostume(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.patch_costume")

	s, err := session(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("patch_costume_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.PatchCostumeRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_costume_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	costume, err := h.Svc.PatchCostume(ctx, s.AccountID, id, req)
	if err != nil {
		return fail(l, "patch_costume_error", err)
	}

	l.Info("patch_costume_success", "costume_id", id)
	return c.JSON(http.StatusOK, costume)
}

func (h *CatalogHTTP) DeleteCostume(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_costume")

	s, err := session(c)
	if err != nil {
		return err
	}
	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_costume_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteCostume(ctx, s.AccountID, id); err != nil {
		return fail(l, "delete_costume_error", err)
	}

	l.Info("delete_costume_success", "costume_id", id)
	return c.NoContent(http.StatusNoContent)
}

func (h *CatalogHTTP) FilterCostumes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.filter_costumes")

	var req transport.CostumeFilter
	if err := c.Bind(&req); err != nil {
		l.Warn("filter_costumes_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	items, err := h.Svc.FilterCostumes(ctx, req)
	if err != nil {
		return fail(l, "filter_costumes_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

type searchRequest struct {
	Query string `json:"query" query:"q"`
	Page  string `json:"page" query:"page"`
	Size  string `json:"size" query:"size"`
}

// SearchCostumes accepts the query either as ?q= or as a JSON body.
func (h *CatalogHTTP) SearchCostumes(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.search_costumes")

	var req searchRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("search_costumes_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if req.Query == "" {
		req.Query = c.QueryParam("q")
	}

	page := util.ParseIntDefault(req.Page, 1)
	size := util.ParseIntDefault(req.Size, util.DefaultPageSize)
	from, size := util.Calculate(page, size)

	total, items, err := h.Svc.SearchCostumes(ctx, req.Query, from, size)
	if err != nil {
		return fail(l, "search_costumes_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"total": total, "costumes": items})
}

func (h *CatalogHTTP) ListCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.list_categories")

	items, err := h.Svc.ListCategories(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *CatalogHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.get_category")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("get_category_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	category, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		return fail(l, "get_category_error", err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.create_category")

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.CreateCategory(ctx, req.Name)
	if err != nil {
		return fail(l, "create_category_error", err)
	}
	return c.JSON(http.StatusCreated, category)
}

func (h *CatalogHTTP) RenameCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.rename_category")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("rename_category_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var req transport.CategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("rename_category_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	category, err := h.Svc.RenameCategory(ctx, id, req.Name)
	if err != nil {
		return fail(l, "rename_category_error", err)
	}
	return c.JSON(http.StatusOK, category)
}

func (h *CatalogHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "catalog.delete_category")

	id, err := parseID(c, "id")
	if err != nil {
		l.Warn("delete_category_error", "status", 400, "reason", err.Error())
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		return fail(l, "delete_category_error", err)
	}
	return c.NoContent(http.StatusNoContent)
}
