// Package kin implements a small prototype-based object model with a
// chainable builder for class-style type definitions:
//   - NewType associates a constructor with the universal Base type, or
//     synthesizes an auto-instantiating constructor from a plain value.
//   - Extends rewires the prototype chain against a supertype while
//     preserving the descriptors of members already defined.
//   - Copies merges enumerable members from mixin objects into the
//     prototype, with key redirection and member renaming.
//   - Implements registers static or instance members with explicit
//     writable/enumerable/configurable flags.
//
// Members default to non-writable, non-enumerable, and non-configurable
// unless the descriptor says otherwise. All operations are synchronous,
// in-memory structural mutation intended for a single-threaded
// definition phase; the model provides no locking.
package kin
