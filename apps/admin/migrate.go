package main

import (
	"database/sql"

	"github.com/trezcool/goose"

	appfs "github.com/yavirac/inventario/fs"
)

var gooseRunFunc = goose.RunFS // mockable

func (cli *commandLine) migrate(args []string) error {
	arguments := make([]string, 0)
	if len(args) > 1 {
		arguments = append(arguments, args[1:]...)
	}
	var db *sql.DB
	if cli.db != nil {
		db = cli.db.DB
	}
	return gooseRunFunc(args[0], db, appfs.FS, "migrations", arguments...)
}
