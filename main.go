// Package main NoteKeep API
//
//	@title			NoteKeep API
//	@version		1.0.0
//	@description	NoteKeep is a token-authenticated notes and tasks API
//
//	@host			localhost:3000
//	@BasePath		/api/v1
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package main

import "github.com/notekeep/notekeep/internal"

//go:generate swag init --parseDependency --outputTypes go -g ./main.go -o ./internal/server/docs

func main() {
	internal.Run()
}
