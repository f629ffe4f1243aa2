// Package all registers every built-in storage backend with the storage
// factory. Import it for side effects:
//
//	import _ "retailclean/internal/storage/all"
//
// after which storage.New and storage.Sink accept the kinds "postgres",
// "mssql" and "sqlite".
package all

import (
	_ "retailclean/internal/storage/mssql"
	_ "retailclean/internal/storage/postgres"
	_ "retailclean/internal/storage/sqlite"
)
