package httpserver

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/storefront/internal/service"
	"github.com/Skotchmaster/storefront/internal/transport"
	"github.com/Skotchmaster/storefront/internal/util"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

type CatalogHTTP struct {
	Svc *service.CatalogService
}

func pageParams(c echo.Context) (page, limit int) {
	page = util.ParseIntDefault(c.QueryParam("page"), 1)
	limit = util.ParseIntDefault(c.QueryParam("limit"), util.DefaultPageSize)
	return page, limit
}

func (h *CatalogHTTP) Categories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	cats, err := h.Svc.Categories(ctx)
	if err != nil {
		return fail(l, "list_categories_error", err)
	}
	return respond(c, http.StatusOK, "", cats)
}

func (h *CatalogHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CategoryRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "create_category_error", err)
	}

	cat, err := h.Svc.CreateCategory(ctx, req.Command())
	if err != nil {
		return fail(l, "create_category_error", err)
	}
	l.Info("create_category_success", "category_id", cat.ID)
	return respond(c, http.StatusCreated, "Category created successfully", cat)
}

func (h *CatalogHTTP) UpdateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := uuidParam(c, "id", "category")
	if err != nil {
		return err
	}
	var req transport.CategoryRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "update_category_error", err)
	}

	cat, err := h.Svc.UpdateCategory(ctx, id, req.Command())
	if err != nil {
		return fail(l, "update_category_error", err)
	}
	l.Info("update_category_success", "category_id", cat.ID)
	return respond(c, http.StatusOK, "Category updated successfully", cat)
}

func (h *CatalogHTTP) CreateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.create")

	var req transport.ProductRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "create_product_error", err)
	}

	p, err := h.Svc.CreateProduct(ctx, req.Command())
	if err != nil {
		return fail(l, "create_product_error", err)
	}
	l.Info("create_product_success", "product_id", p.ID)
	return respond(c, http.StatusCreated, "Product created successfully", p)
}

func (h *CatalogHTTP) UpdateProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := uuidParam(c, "id", "product")
	if err != nil {
		return err
	}
	var req transport.ProductRequest
	if err := bind(c, &req); err != nil {
		return invalid(l, "update_product_error", err)
	}

	p, err := h.Svc.UpdateProduct(ctx, id, req.Command())
	if err != nil {
		return fail(l, "update_product_error", err)
	}
	l.Info("update_product_success", "product_id", p.ID)
	return respond(c, http.StatusOK, "Product updated successfully", p)
}

func (h *CatalogHTTP) GetProduct(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.get")

	id, err := uuidParam(c, "id", "product")
	if err != nil {
		return err
	}
	p, err := h.Svc.GetProduct(ctx, id)
	if err != nil {
		return fail(l, "get_product_error", err)
	}
	return respond(c, http.StatusOK, "", p)
}

func (h *CatalogHTTP) Products(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.all")

	page, limit := pageParams(c)
	items, meta, err := h.Svc.Products(ctx, page, limit)
	if err != nil {
		return fail(l, "get_products_error", err)
	}
	return respondPage(c, "", items, meta)
}

func decimalQuery(c echo.Context, name string) (*decimal.Decimal, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, name+" must be a number")
	}
	return &d, nil
}

func (h *CatalogHTTP) Filter(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.filter")

	var (
		q   service.ProductQuery
		err error
	)
	if raw := c.QueryParam("category"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return invalid(l, "filter_products_error", echo.NewHTTPError(http.StatusBadRequest, "category must be a valid id"))
		}
		q.CategoryID = &id
	}
	q.Brand = c.QueryParam("brand")
	if q.MinPrice, err = decimalQuery(c, "minPrice"); err != nil {
		return invalid(l, "filter_products_error", err)
	}
	if q.MaxPrice, err = decimalQuery(c, "maxPrice"); err != nil {
		return invalid(l, "filter_products_error", err)
	}
	if raw := c.QueryParam("stars"); raw != "" {
		stars, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return invalid(l, "filter_products_error", echo.NewHTTPError(http.StatusBadRequest, "stars must be a number"))
		}
		q.MinStars = &stars
	}

	page, limit := pageParams(c)
	items, meta, err := h.Svc.FilterProducts(ctx, q, page, limit)
	if err != nil {
		return fail(l, "filter_products_error", err)
	}
	return respondPage(c, "", items, meta)
}

func (h *CatalogHTTP) Brands(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.brands")

	brands, err := h.Svc.Brands(ctx)
	if err != nil {
		return fail(l, "get_brands_error", err)
	}
	return respond(c, http.StatusOK, "", brands)
}

func (h *CatalogHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	page, limit := pageParams(c)
	items, meta, err := h.Svc.Search(ctx, c.QueryParam("q"), page, limit)
	if err != nil {
		return fail(l, "search_products_error", err)
	}
	return respondPage(c, "", items, meta)
}
