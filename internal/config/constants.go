package config

// Default database targets
const (
	// DefaultDatabaseName is the regular application database
	DefaultDatabaseName = "vapor"

	// DefaultDatabasePort is the regular Postgres port
	DefaultDatabasePort = 5432

	// TestingDatabaseName is used when TESTING=true
	TestingDatabaseName = "vapor-test"

	// TestingDatabasePort is used when TESTING=true and no explicit port is set
	TestingDatabasePort = 5433

	// DefaultSQLitePath is the sqlite database file used with DATABASE_DRIVER=sqlite
	DefaultSQLitePath = "./bookcatalog.db"
)
