// Command codexd starts the Codex desktop app from an extracted bundle.
//
// Release builds for Windows link against the GUI subsystem so that no
// console window opens next to the app:
//
//	GOOS=windows GOARCH=amd64 go build -ldflags "-H=windowsgui" -o codexd.exe ./cmd/codexd
//	GOOS=windows GOARCH=arm64 go build -ldflags "-H=windowsgui" -o codexd-arm64.exe ./cmd/codexd
//
// A GUI-subsystem binary has no stderr when started from Explorer, so
// failures reach the user through the error dialog. Console builds (no
// -H flag) keep stderr and are the ones to use when diagnosing with
// --debug or the doctor subcommand.
package main
