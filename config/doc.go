// Package config loads client configuration from a .termsql config file
// and TERMSQL_ prefixed environment variables.
//
// # Config file
//
// The config file is searched for in the working directory and the user
// config directory. Example:
//
//	alert_mode: delete
//	max_rows: 1000
//	history_dir: ~/.local/share/termsql
//	connections:
//	  - name: local
//	    type: sqlite3
//	    path: app.db
//	  - name: prod
//	    type: postgres
//	    host: db.example.com
//	    port: 5432
//	    user: app
//	    database: app
package config
