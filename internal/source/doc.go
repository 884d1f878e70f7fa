// Package source turns model markers into displayable, optionally hyperlinked,
// source locations.
//
// A Marker records where a model element came from (file URI, line, column).
// Normalize canonicalizes the marker location and makes it relative to a base
// directory; Format rewrites paths under a known build-output prefix into
// public source-hosting URLs with a line anchor. LinkResolver combines both and
// never fails: unresolvable markers yield an empty Option.
//
// Everything in this package is safe for concurrent use. The only state is
// the immutable base directory and prefixes held by a LinkResolver.
package source
