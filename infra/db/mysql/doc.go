// Package mysql provides MySQL database connection pool.
//
// Features connection pooling and health checks.
//
// Basic usage:
//
//	db, err := mysql.New(mysql.DefaultConfig("user@tcp(localhost:3306)/mydb"))
//	if err != nil {
//	    // handle connection error
//	}
//	defer db.Close()
//
// Pool settings are plain Config fields:
//
//	cfg := mysql.DefaultConfig(dsn)
//	cfg.MaxOpenConns = 100
//	cfg.MaxIdleConns = 10
//	cfg.ConnMaxLifetime = time.Hour
//	db, err := mysql.New(cfg)
//
// Health check:
//
//	if err := db.Health(ctx); err != nil {
//	    // handle connection error
//	}
package mysql
