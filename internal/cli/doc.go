// Package cli implements the mustardseed command line: a cobra command tree
// for one-shot commands and an interactive shell over the same App.
package cli
