/*
Package main provides the gramflow command line entry point.

cmd/gramflow analyzes text into sliding-window n-grams and maintains a
local sqlite posting index. Subcommands:

  - tokenize  read a file (or stdin) and print one token per line
  - index     analyze files concurrently and store their postings
  - count     count model tokens in a file using tiktoken or the estimator
  - terms     print the most frequent terms in the index
  - version   print build information

Configuration comes from an optional YAML file plus GRAMFLOW_* environment
variables. Version, BuildTime and GitCommit are injected through ldflags.
*/
package main
