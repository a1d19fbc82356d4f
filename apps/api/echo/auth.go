package echoapi

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/session"
	"github.com/yavirac/inventario/core/usuario"
)

const contextTokenKey = "usuarioToken"

func newJWTConfig(secret []byte) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    secret,
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    contextTokenKey,
		Claims:        new(Claims),
	}
}

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Nombre string `json:"nombre,omitempty"`
	Email  string `json:"email,omitempty"`
	IDRol  int    `json:"idRol,omitempty"`
}

// UsuarioID decodes the subject back into the usuario id.
func (c Claims) UsuarioID() int {
	id, _ := strconv.Atoi(c.Subject)
	return id
}

func GetUsuarioClaims(conf *core.Config, usr usuario.Usuario) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   strconv.Itoa(usr.IDUsuario),
			Audience:  "Yavirac",
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Nombre: usr.Nombre,
		Email:  usr.Email,
		IDRol:  usr.IDRol,
	}
}

// GenerateToken generates a signed JWT token string representing the usuario Claims.
func GenerateToken(secret []byte, claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.GetSigningMethod(middleware.AlgorithmHS256), claims)
	ss, err := token.SignedString(secret)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(contextTokenKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

// localAuthenticator verifies credentials against our own usuario table and
// issues the JWT. Its payload mirrors the legacy identity API's response so
// the session layer normalizes both through the same path.
type localAuthenticator struct {
	svc  usuario.ServiceInterface
	conf *core.Config
}

var _ session.Authenticator = (*localAuthenticator)(nil)

func NewLocalAuthenticator(svc usuario.ServiceInterface, conf *core.Config) session.Authenticator {
	return &localAuthenticator{svc: svc, conf: conf}
}

func (a *localAuthenticator) Authenticate(ctx context.Context, creds session.Credentials) (json.RawMessage, error) {
	usr, err := a.svc.GetByEmail(ctx, creds.Email)
	if err != nil {
		if errors.Cause(err) == usuario.ErrNotFound {
			return nil, session.ErrInvalidCredentials
		}
		return nil, errors.Wrap(err, "finding usuario by email")
	}
	if err = usr.CheckPassword(creds.Password); err != nil {
		return nil, session.ErrInvalidCredentials
	}
	if !usr.Estado {
		return nil, errors.Wrap(session.ErrInvalidCredentials, "cuenta desactivada")
	}

	token, err := GenerateToken(a.conf.SecretKey, GetUsuarioClaims(a.conf, usr))
	if err != nil {
		return nil, errors.Wrap(err, "generating token")
	}

	payload, err := json.Marshal(map[string]interface{}{
		"token":         token,
		"idUsuario":     usr.IDUsuario,
		"nombre":        usr.Nombre,
		"email":         usr.Email,
		"rol":           usr.IDRol,
		"estado":        usr.Estado,
		"fechaRegistro": usr.FechaRegistro.Format(time.RFC3339),
	})
	if err != nil {
		return nil, errors.Wrap(err, "encoding login payload")
	}
	return payload, nil
}

type authApi struct {
	opts *Options
}

func registerAuthAPI(g *echo.Group, jwt echo.MiddlewareFunc, opts *Options) {
	api := authApi{opts: opts}

	ag := g.Group("/auth")
	ag.POST("/login", api.login)

	authed := ag.Group("", jwt)
	authed.POST("/logout", api.logout)
	authed.GET("/session", api.sessionStatus)
}

// login authenticates, normalizes the backend payload and opens the session
// window for the usuario's profile.
func (api *authApi) login(ctx echo.Context) error {
	var creds session.Credentials
	if err := ctx.Bind(&creds); err != nil {
		return errors.Wrap(err, "binding credentials")
	}
	if err := api.opts.Validate.Struct(&creds); err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	raw, err := api.opts.Authenticator.Authenticate(reqCtx, creds)
	if err != nil {
		return loginError(err)
	}

	usr, token, err := session.NormalizeLoginPayload(raw, creds.Email, api.opts.Logger)
	if err != nil {
		return errors.Wrap(err, "normalizing login payload")
	}

	m, err := api.opts.Registry.ForUser(reqCtx, usr.IDUsuario)
	if err != nil {
		return errors.Wrap(err, "resolving session manager")
	}
	if err = m.AdoptSession(reqCtx, usr, token); err != nil {
		return errors.Wrap(err, "opening session")
	}

	return ctx.JSON(200, LoginResponse{Token: token, Usuario: usr})
}

// logout broadcasts the notice to the profile's other clients, then clears
// the session. Calling it with no open session is fine.
func (api *authApi) logout(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	m, err := api.opts.Registry.ForUser(reqCtx, claims.UsuarioID())
	if err != nil {
		return errors.Wrap(err, "resolving session manager")
	}
	m.Logout(reqCtx)

	return ctx.JSON(200, SuccessResponse{Success: "sesión cerrada"})
}

func (api *authApi) sessionStatus(ctx echo.Context) error {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return err
	}

	reqCtx := ctx.Request().Context()
	m, err := api.opts.Registry.ForUser(reqCtx, claims.UsuarioID())
	if err != nil {
		return errors.Wrap(err, "resolving session manager")
	}
	if _, ok := m.Current(reqCtx); !ok {
		return errSessionExpired
	}

	timer := m.Timer()
	return ctx.JSON(200, SessionStatusResponse{
		RemainingSeconds: int(timer.GetTimeRemaining().Seconds()),
		ShowWarning:      timer.ShouldShowWarning(),
	})
}
