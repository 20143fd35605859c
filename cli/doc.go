// Package cli contains the command line interface for streamscore.
//
// # Usage
//
// The default command prints both metrics of each source:
//
//	streamscore input.txt
//	streamscore solve --format=json - < input.txt
//
// Other commands reformat the parsed stream, evaluate expressions over its
// metrics, score streams interactively, or write the configuration file:
//
//	streamscore fmt ast input.txt
//	streamscore eval 'score * 2 - garbage' input.txt
//	streamscore repl
//	streamscore init --force
//
// # Sources
//
// Sources given with --source are read before those given to a command, and
// "-" reads standard input after every file. The same file named twice (even
// through a symlink) is read once. A bare name that does not exist in the
// working directory is searched for in the "inputs" directory under the
// configuration directory and then in each directory listed in
// $STREAMSCORE_PATH.
//
// # Configuration
//
// Flags may also be set in config.yaml under the user configuration
// directory. Keys are flag names with hyphens or underscores, and nested
// mappings join their keys with hyphens:
//
//	log:
//	  level: debug
//	  format: json
//
// Command-line flags override config file values. The init command writes
// the current flag values to this file.
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize log output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default:
//     ~/.cache/streamscore/pprof)
package cli
