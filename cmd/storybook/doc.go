// Package main hosts the Storybook console entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into REST calls
// against the pipeline backend, progress stream subscriptions, local mirror
// maintenance, asset downloads, and configuration scaffolding. It centralizes
// configuration resolution, API client construction, and structured logging
// setup so subcommands can focus on user experience instead of wiring.
//
// Keep this package lean: add new functionality by extending the internal
// packages first, then surface it through dedicated commands or flags here.
package main
