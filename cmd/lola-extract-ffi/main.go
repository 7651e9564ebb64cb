// Command lola-extract-ffi builds the C shared library:
//
//	go build -buildmode=c-shared -o liblola_extract.so ./cmd/lola-extract-ffi
//
// Exported functions:
//
//	char *parse_specification(const char *path);
//	char *lola_extract(const char *path, int *failure_kind);
//	void free_json_string(char *s);
//
// Both extraction calls return a newly allocated NUL-terminated JSON string,
// or NULL on failure. lola_extract also stores 0 (success), 1 (load failure)
// or 2 (parse failure) through failure_kind when it is not NULL.
//
// Every non-NULL result must be released exactly once with free_json_string.
// Releasing a pointer twice, or one not returned by this library, is undefined
// behavior. free_json_string(NULL) does nothing.
package main

import (
	"github.com/mvp-joe/lola-extract/internal/extract"
)

// ffiExtractor logs diagnostics to stderr like the standalone tool.
var ffiExtractor = extract.New()

// extractForFFI runs one extraction and flattens the error into a failure kind.
func extractForFFI(e *extract.Extractor, path string) (string, extract.FailureKind) {
	out, err := e.Extract(path)
	if err != nil {
		return "", extract.KindOf(err)
	}
	return out, extract.FailureNone
}

func main() {}
