package echoapi

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core/usuario"
)

type usuarioApi struct {
	opts *Options
}

func registerUsuarioAPI(g *echo.Group, jwt, sess echo.MiddlewareFunc, opts *Options) {
	api := usuarioApi{opts: opts}

	ug := g.Group("/usuarios", jwt, sess, roleGuard(opts.Policy, "/usuarios"))
	ug.POST("", api.create)
	ug.GET("", api.query)
	ug.DELETE("", api.destroyMultiple)

	dg := ug.Group("/:id")
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)

	// the role table is static reference data for any authenticated usuario
	g.GET("/roles", api.queryRoles, jwt, sess)
}

// pathID parses the :id path param.
func pathID(ctx echo.Context) (int, error) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return 0, errHttpNotFound
	}
	return id, nil
}

// queryIDs parses the repeated ?id= query params.
func queryIDs(ctx echo.Context) ([]int, error) {
	params := ctx.QueryParams()["id"]
	ids := make([]int, 0, len(params))
	for _, param := range params {
		id, err := strconv.Atoi(param)
		if err != nil {
			return nil, echo.NewHTTPError(http.StatusBadRequest, "invalid id: "+param)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (api *usuarioApi) create(ctx echo.Context) error {
	var data usuario.NewUsuario
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewUsuario")
	}
	if err := data.Validate(api.opts.Validate, api.opts.UsuarioSvc); err != nil {
		return err
	}

	usr, err := api.opts.UsuarioSvc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating usuario")
	}
	return ctx.JSON(http.StatusCreated, usr)
}

func (api *usuarioApi) query(ctx echo.Context) error {
	var filter usuario.QueryFilter
	if err := ctx.Bind(&filter); err != nil {
		return errors.Wrap(err, "binding to QueryFilter")
	}
	filter.Clean()

	usrs, err := api.opts.UsuarioSvc.Query(ctx.Request().Context(), &filter)
	if err != nil {
		return errors.Wrap(err, "querying usuarios")
	}
	return ctx.JSON(http.StatusOK, usrs)
}

func (api *usuarioApi) retrieve(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	usr, err := api.opts.UsuarioSvc.GetByID(ctx.Request().Context(), id)
	if err != nil {
		if errors.Cause(err) == usuario.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting usuario")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *usuarioApi) update(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	orig, err := api.opts.UsuarioSvc.GetByID(reqCtx, id)
	if err != nil {
		if errors.Cause(err) == usuario.ErrNotFound {
			return errHttpNotFound
		}
		return errors.Wrap(err, "getting usuario")
	}

	var data usuario.UpdateUsuario
	if err = ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateUsuario")
	}
	if err = data.Validate(orig, api.opts.Validate, api.opts.UsuarioSvc); err != nil {
		return err
	}

	usr, err := api.opts.UsuarioSvc.Update(reqCtx, id, data)
	if err != nil {
		return errors.Wrap(err, "updating usuario")
	}
	return ctx.JSON(http.StatusOK, usr)
}

func (api *usuarioApi) destroy(ctx echo.Context) error {
	id, err := pathID(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.UsuarioSvc.Delete(ctx.Request().Context(), id); err != nil {
		return errors.Wrap(err, "deleting usuario")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *usuarioApi) destroyMultiple(ctx echo.Context) error {
	ids, err := queryIDs(ctx)
	if err != nil {
		return err
	}
	if err = api.opts.UsuarioSvc.Delete(ctx.Request().Context(), ids...); err != nil {
		return errors.Wrap(err, "deleting usuarios")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *usuarioApi) queryRoles(ctx echo.Context) error {
	return ctx.JSON(http.StatusOK, usuario.Roles)
}
