// Package main provides the durable CLI.
//
// durable serves the washing machine comparison API and offers one-shot and
// interactive searches against the same catalog.
//
// Usage:
//
//	durable serve
//	durable search "la plus fiable"
//	durable shell
package main

func main() {
	Execute()
}
