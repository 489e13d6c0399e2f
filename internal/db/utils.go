package db

import (
	"fmt"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/dtnitsch/recipe-features/pkg/db"
)

// open opens the database named by --db, or the default next to the binary.
func open(c *cli.Context) (*dbpkg.DB, error) {
	database, err := dbpkg.Open(c.String("db"))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}
