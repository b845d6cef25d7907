// Package analysis defines the token stream contracts shared by gramflow
// tokenizers and sinks: the Token value, the pull-based TokenStream, the
// push-based Sink, and the offset correction hook.
package analysis
