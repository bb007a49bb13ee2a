// Package sample holds the database served when no database file is given.
package sample

import _ "embed"

// DB is a small coaching club database: clubs, coaches, teams, athletes,
// drills, training sessions and session feedback.
//
//go:embed db.json
var DB []byte
