package main

import (
	"context"
	"time"

	"github.com/yavirac/inventario/core"
	"github.com/yavirac/inventario/core/usuario"
)

// addUsuario updates or creates a usuario.Usuario.
func (cli *commandLine) addUsuario(nombre, email, cedula, pwd string, isAdmin bool) error {
	ctx := context.Background()
	nombre = core.CleanString(nombre)
	email = core.CleanString(email, true /* lower */)
	cedula = core.CleanString(cedula)

	idRol := usuario.RoleDocente
	if isAdmin {
		idRol = usuario.RoleAdmin
	}

	usr, err := cli.usrRepo.GetUsuarioByEmail(ctx, email)
	if err != nil {
		if err != usuario.ErrNotFound {
			return err
		}
		usr = usuario.Usuario{
			Nombre:        nombre,
			Cedula:        cedula,
			Email:         email,
			Estado:        true,
			IDRol:         idRol,
			FechaRegistro: time.Now().UTC(),
		}
		if err = usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUsuario(ctx, usr)
		return err
	}

	usr.Nombre = nombre
	if cedula != "" {
		usr.Cedula = cedula
	}
	usr.IDRol = idRol
	if err = usr.SetPassword(pwd); err != nil {
		return err
	}
	estado := true
	_, err = cli.usrRepo.UpdateUsuario(ctx, usr, &estado)
	return err
}
