// Package buildconfig resolves a project's build configuration.
//
// A project declares a partial configuration document (output mode, image
// hosts, public environment, experimental flags, strictness). Resolve
// validates that document, fills every omitted key with its default, and
// captures public environment values from an EnvSnapshot. The result is a
// Record: fully populated, read-only, and safe to share between goroutines.
//
// Resolution is a pure function of its inputs. It performs no I/O and reads
// no global state; callers capture the environment once and pass it in.
//
// Documents are validated twice over in the CLI's strict mode: once against
// the embedded JSON Schema (ValidateDocument) and always by Resolve itself.
// Both report problems as *InvalidConfigError naming the offending key.
package buildconfig
