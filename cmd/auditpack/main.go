// Package main provides the auditpack CLI for inspecting, linting and
// packaging compliance profiles.
package main

func main() {
	Execute()
}
