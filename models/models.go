package models

// MigrateModels lists the tables created at startup.
var MigrateModels = []any{
	&Member{},
	&CheckinRecord{},
}
