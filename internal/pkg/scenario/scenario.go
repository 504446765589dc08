package scenario

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrValidation marks scenario inputs or run tokens that cannot be used.
var ErrValidation = errors.New("invalid scenario input")

// Methods recognized by the pipeline.
const (
	MethodGlobalSensitivity = "global_sensitivity"
	MethodSingleBestInWorst = "single_best_in_worst"
)

// methodTags map run-token letters to methods. A run token is
// "<letter><index>", e.g. "g0" or "a3".
var methodTags = map[byte]string{
	'g': MethodGlobalSensitivity,
	'a': MethodSingleBestInWorst,
}

// SingleBestInWorst builds one scenario per technology where that technology
// alone takes its best value while all others keep their worst value.
//
//	SingleBestInWorst([4,4,4], [1,1,1]) -> [[1,4,4],[4,1,4],[4,4,1]]
//	SingleBestInWorst([1,1,1], [4,4,4]) -> [[4,1,1],[1,4,1],[1,1,4]]
//
// Which direction counts as good is up to the caller: lower is better for
// costs, higher for efficiencies. The inputs are never modified.
func SingleBestInWorst(worst, best []float64) ([][]float64, error) {
	if len(worst) != len(best) {
		return nil, fmt.Errorf("%w: worst and best lengths differ (%d != %d)",
			ErrValidation, len(worst), len(best))
	}

	scenarios := make([][]float64, len(worst))
	for i := range worst {
		row := make([]float64, len(worst))
		copy(row, worst)
		row[i] = best[i]
		scenarios[i] = row
	}
	return scenarios, nil
}

// RunToken identifies one scenario of a run: the method it belongs to and
// the row index into the scenario set.
type RunToken struct {
	Method string
	Index  int
}

// ParseToken decodes a "<letter><index>" run token.
func ParseToken(token string) (RunToken, error) {
	if len(token) < 2 {
		return RunToken{}, fmt.Errorf("%w: run token %q too short", ErrValidation, token)
	}

	method, ok := methodTags[token[0]]
	if !ok {
		return RunToken{}, fmt.Errorf("%w: unknown method tag %q in run token %q",
			ErrValidation, string(token[0]), token)
	}

	idx, err := strconv.Atoi(token[1:])
	if err != nil || idx < 0 {
		return RunToken{}, fmt.Errorf("%w: bad run index in token %q", ErrValidation, token)
	}

	return RunToken{Method: method, Index: idx}, nil
}

// Tokens enumerates the run tokens for a method, one per scenario. The
// external scheduler re-invokes the pipeline once per token.
func Tokens(method string, count int) ([]string, error) {
	var tag byte
	switch method {
	case MethodGlobalSensitivity:
		tag = 'g'
	case MethodSingleBestInWorst:
		tag = 'a'
	default:
		return nil, fmt.Errorf("%w: unknown method %q", ErrValidation, method)
	}

	tokens := make([]string, count)
	for i := range tokens {
		tokens[i] = fmt.Sprintf("%c%d", tag, i)
	}
	return tokens, nil
}
