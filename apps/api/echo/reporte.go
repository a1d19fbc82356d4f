package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/reporte"
)

type reporteApi struct {
	opts *Options
}

func registerReporteAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, opts *Options) {
	api := reporteApi{opts: opts}

	rg := g.Group("/reportes", jwt, sess, roleGuard(opts.Policy, "/reportes"))
	rg.GET("", api.query)
	rg.DELETE("", api.destroyMultiple)

	dg := rg.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)

	// docentes file incident reportes and follow them from their own view;
	// the admin side only lists and works them
	g.POST("/reportes", api.create,
		jwt, sess, roleGuard(opts.Policy, "/reportes-docente"))
	g.GET("/reportes/usuario/:id", api.queryByUsuario,
		jwt, sess, roleGuard(opts.Policy, "/reportes-docente"))
}

func (api *reporteApi) create(ctx echo.Context) error {
	var data reporte.NewReporte
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewReporte")
	}
	if err := data.Validate(api.opts.Validate); err != nil {
		return err
	}

	r, err := api.opts.ReporteSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating reporte")
	}
	return ctx.JSON(http.StatusCreated, r)
}

func (api *reporteApi) query(ctx echo.Context) error {
	reps, err := api.opts.ReporteSvc.Query(ctx.Request().Context())
	if err != nil {
		return errors.Wrap(err, "querying reportes")
	}
	return ctx.JSON(http.StatusOK, reps)
}

func (api *reporteApi) queryByUsuario(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	reps, err := api.opts.ReporteSvc.QueryByUsuario(ctx.Request().Context(), id)
	if err != nil {
		return errors.Wrap(err, "querying reportes by usuario")
	}
	return ctx.JSON(http.StatusOK, reps)
}

func (api *reporteApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	r, err := api.opts.ReporteSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == reporte.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting reporte")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reporteApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	orig, err := api.opts.ReporteSvc.GetByID(reqCtx, id)
	if err != nil {
		if errors.Cause(err) == reporte.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting reporte")
	}

	var data reporte.UpdateReporte
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateReporte")
	}
	if err = data.Validate(orig, api.opts.Validate); err != nil {
		return err
	}

	r, err := api.opts.ReporteSvc.Update(reqCtx, id, data)
	if err != nil {
		return errors.Wrap(err, "updating reporte")
	}
	return ctx.JSON(http.StatusOK, r)
}

func (api *reporteApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.ReporteSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting reporte")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *reporteApi) destroyMultiple(ctx echo.Context) error {
	ids, err := queryIDs(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.ReporteSvc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting reportes")
	}
	return ctx.NoContent(http.StatusNoContent)
}
