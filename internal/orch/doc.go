// Package orch turns run descriptors into engine command lines and
// executes them as external processes under a bounded worker pool,
// recording per-run outcomes without interpreting them.
package orch
