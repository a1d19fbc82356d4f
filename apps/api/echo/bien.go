package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/bien"
)

type bienApi struct {
	opts *Options
}

func registerBienAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, opts *Options) {
	api := bienApi{opts: opts}

	bg := g.Group("/bienes", jwt, sess, roleGuard(opts.Policy, "/inventario"))
	bg.POST("", api.create)
	bg.GET("", api.query)
	bg.GET("/categorias", api.queryCategorias)
	bg.GET("/codigo/:codigo", api.retrieveByCodigo)
	bg.DELETE("", api.destroyMultiple)

	dg := bg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *bienApi) create(ctx echo.Context) error {
	var data bien.NewBien
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewBien")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	b, err := api.opts.BienSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating bien")
	}
	return ctx.JSON(http.StatusCreated, b)
}

func (api *bienApi) query(ctx echo.Context) error {
	var filter bien.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	bienes, err := api.opts.BienSvc.Query(ctx.Request().Context(), &filter)
	if err != nil {
		return errors.Wrap(err, "querying bienes")
	}
	return ctx.JSON(http.StatusOK, bienes)
}

func (api *bienApi) queryCategorias(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, bien.Categorias)
}

func (api *bienApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	b, err := api.opts.BienSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == bien.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting bien")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *bienApi) retrieveByCodigo(ctx echo.Context) error {
	b, err := api.opts.BienSvc.GetByCodigo(ctx.Request().Context(), ctx.Param("codigo"))
	if err != nil {
		if errors.Cause(err) == bien.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting bien by código")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *bienApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	orig, err := api.opts.BienSvc.GetByID(reqCtx, id)
	if err != nil {
		if errors.Cause(err) == bien.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting bien")
	}

	var data bien.UpdateBien
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateBien")
	}
	if err = data.Validate(orig, api.opts.Validate); err != nil {
		return err
	}

	b, err := api.opts.BienSvc.Update(reqCtx, id, data)
	if err != nil {
		return errors.Wrap(err, "updating bien")
	}
	return ctx.JSON(http.StatusOK, b)
}

func (api *bienApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.BienSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting bien")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *bienApi) destroyMultiple(ctx echo.Context) error {
	ids, err := queryIDs(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.BienSvc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting bienes")
	}
	return ctx.NoContent(http.StatusNoContent)
}
