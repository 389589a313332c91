package cmd

import "strings"

func rootLongHelp() string {
	return strings.TrimSpace(`
Count the significant lines of every matching file under a directory and fail
when any file has more than --max of them.

Counting:
- a line ends at "\n" ("\r\n" is fine); a trailing newline does not add a line
- --min-line-length N: lines shorter than N after trimming whitespace do not count
- --skip-blank: whitespace-only lines do not count
- --ignore-prefix P: lines starting with P (after trimming) do not count
- a line counts only when it passes every active filter

Files:
- --include / --exclude take glob patterns relative to --path
- "*" stays inside one directory, "**" crosses directories
- binary files and text that is not valid in --encoding abort the run

Configuration (later wins):
1. built-in defaults
2. --config file (YAML, "lint" section)
3. LNWARN_* environment variables
4. flags given on the command line

Exit codes:
- 0      no file exceeds the maximum
- 1-250  number of files over the maximum
- 255    --path does not exist
- 254    a file could not be read or decoded
- 253    invalid flags or configuration
`)
}

func rootExampleHelp() string {
	return strings.TrimSpace(`
  # check Go files under the current directory against the default of 50 lines
  lnwarn

  # ignore short lines and comment lines, allow 200 lines
  lnwarn -ml 3 --ignore-prefix // --max 200

  # another tree, several patterns, every file listed
  lnwarn --path ~/src/app -i '**/*.cs' -i '**/*.ts' -x '**/obj/**' --show-all

  # machine-readable output
  lnwarn --format ndjson

  # settings from a file, overridden by the environment
  LNWARN_MAX_LINES=80 lnwarn --config .lnwarn.yaml
`)
}
