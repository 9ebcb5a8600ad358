package output

import (
	"fmt"
	"strings"

	"github.com/itchyny/gojq"
)

// runQuery normalizes data to map/slice form, runs a gojq query and returns
// every emitted value.
func runQuery(query string, data interface{}) ([]interface{}, error) {
	normalized, err := normalizeToInterface(data)
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}

	parsed, err := gojq.Parse(query)
	if err != nil {
		return nil, formatInvalidQueryErr(err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return nil, formatInvalidQueryErr(err)
	}

	var results []interface{}
	iter := code.Run(normalized)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if queryErr, isErr := v.(error); isErr {
			return nil, fmt.Errorf("query error: %s", safeErrorMessage(queryErr))
		}
		results = append(results, v)
	}
	return results, nil
}

func formatInvalidQueryErr(err error) error {
	msg := strings.ToLower(strings.TrimSpace(err.Error()))
	if strings.Contains(msg, "unexpected eof") {
		return fmt.Errorf("invalid --query: %w\nHint: query looks incomplete; quote it fully", err)
	}
	return fmt.Errorf("invalid --query: %w", err)
}

// safeErrorMessage returns a best-effort string for errors whose Error method
// may panic (some gojq runtime errors on typed values).
func safeErrorMessage(err error) (msg string) {
	defer func() {
		if recovered := recover(); recovered != nil {
			msg = fmt.Sprintf("%T", err)
		}
	}()

	msg = strings.TrimSpace(err.Error())
	if msg == "" {
		return fmt.Sprintf("%T", err)
	}
	return msg
}
