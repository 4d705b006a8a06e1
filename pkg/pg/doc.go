// Package pg bootstraps the PostgreSQL layer: a pgx connection pool
// with startup retries, goose schema migrations, a readiness probe and
// pgconn error classification helpers.
//
//	var cfg pg.Config
//	config.MustLoad(&cfg)
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//	    return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, cfg, log); err != nil {
//	    return err
//	}
package pg
