// Package redact provides utilities for redacting sensitive information from
// strings before they are logged or returned in error responses. This package
// helps prevent the accidental leakage of credentials, connection strings,
// row identifiers, file paths, and other sensitive data that might be
// included in error messages.
//
// SQL statements get structure-preserving treatment: the statement shape
// (verb, table, column list) survives so logs stay debuggable, while literal
// values and WHERE clauses are replaced.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedKeyPlaceholder        = "[REDACTED_KEY]"
)

// Precompiled regex patterns
var (
	// SQL statements. SELECT column lists can reference arbitrary learner
	// data, so the whole projection and filter go; INSERT, UPDATE and DELETE
	// keep their table and column structure and lose only the values.
	sqlSelectRegex = regexp.MustCompile(`(?i)SELECT\s+.+?\s+FROM\s+.+`)
	sqlInsertRegex = regexp.MustCompile(`(?i)(INSERT\s+INTO\s+\S+\s*\([^)]*\)\s*VALUES\s*)\(.*\)`)
	sqlUpdateRegex = regexp.MustCompile(`(?i)(UPDATE\s+\S+\s+SET\s+).+`)
	sqlDeleteRegex = regexp.MustCompile(`(?i)(DELETE\s+FROM\s+\S+\s+)WHERE\s+.+`)

	// Database connection strings
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|mysql|mongodb|db|database|connection)://[^@]+@`)

	// Credentials and tokens
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`)
	apiKeyRegex   = regexp.MustCompile(
		`(?i)(api[_-]?key|token|secret|key|access|auth)(['"\s:=]+)[A-Za-z0-9_\-.~+/]{8,}`,
	)
	awsKeyRegex = regexp.MustCompile(`(AKIA|AccessKey(Id)?)([^a-zA-Z0-9])?[A-Z0-9]{8,}`)
	// JWT token pattern - matches the standard three-part base64url-encoded JWT token format
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Row identifiers. Every entity in the system is keyed by UUID, so a bare
	// UUID in an error message is a learner, card or session identifier.
	uuidRegex = regexp.MustCompile(
		`\b[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}\b`,
	)

	// File paths
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)
	winPathRegex  = regexp.MustCompile(`[A-Za-z]:\\[^\\]+(\\[^\\]+)+`)

	// Stack trace fragments
	stackTraceRegex = regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`)

	// Email addresses
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Z|a-z]{2,}\b`)

	// Database failure phrasing that tends to precede driver internals
	dbErrorRegex = regexp.MustCompile(`(?i)\b(?:sql|db|database|query|connection|runtime)\s+error\b`)

	// Additional sensitive patterns
	lineNumberRegex  = regexp.MustCompile(`(?:at )?line ?\d+`)
	syntaxErrorRegex = regexp.MustCompile(`(?i)syntax error|syntax problem|parse error`)
	hostPortRegex    = regexp.MustCompile(
		`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}(?::\d{1,5})?\b`,
	)
	fileErrorRegex = regexp.MustCompile(
		`(?i)(?:no such file|file not found|can't open|cannot open|file error)`,
	)
)

// rule pairs a pattern with its replacement template. Templates may reference
// capture groups, which is how the SQL rules keep the statement shape.
type rule struct {
	pattern     *regexp.Regexp
	replacement string
}

// rules run in order. Connection strings must be handled before the password
// and email patterns or the userinfo part of a URL gets mangled instead of
// removed, and SQL statements run first so their values never reach the
// narrower patterns.
var rules = []rule{
	{sqlSelectRegex, "SELECT FROM... [SQL_VALUES_REDACTED]"},
	{sqlInsertRegex, "${1}[SQL_VALUES_REDACTED]"},
	{sqlUpdateRegex, "${1}[SQL_VALUES_REDACTED]"},
	{sqlDeleteRegex, "${1}[SQL_WHERE_REDACTED]"},
	{dbConnRegex, RedactedCredentialPlaceholder},
	{passwordRegex, RedactedCredentialPlaceholder},
	{apiKeyRegex, RedactedKeyPlaceholder},
	{awsKeyRegex, RedactedKeyPlaceholder},
	{jwtTokenRegex, "[REDACTED_JWT]"},
	{uuidRegex, "[REDACTED_UUID]"},
	{unixPathRegex, RedactedPathPlaceholder},
	{winPathRegex, RedactedPathPlaceholder},
	{stackTraceRegex, "[STACK_TRACE_REDACTED]"},
	{emailRegex, "[REDACTED_EMAIL]"},
	{dbErrorRegex, "[REDACTED_SQL_ERROR]"},
	{lineNumberRegex, "[REDACTED_LINE_NUMBER]"},
	{syntaxErrorRegex, "[REDACTED_SYNTAX_ERROR]"},
	{hostPortRegex, "[REDACTED_HOST]"},
	{fileErrorRegex, "[REDACTED_FILE_ERROR]"},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.pattern.ReplaceAllString(result, r.replacement)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
