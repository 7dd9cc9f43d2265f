package instr

import (
	"strconv"

	"github.com/cufyorg/jamplate-processor/internal/memory"
	"github.com/cufyorg/jamplate-processor/internal/value"
)

// toExecErr wraps a value-eval failure (e.g. ErrEvalTooDeep) as an
// ExecutionError, so every failure an instruction surfaces is uniformly
// typed.
func toExecErr(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*memory.ExecutionError); ok {
		return err
	}
	return &memory.ExecutionError{Message: err.Error()}
}

func popText(fr *memory.Frame, mem *memory.Memory) (string, error) {
	v, err := fr.Pop()
	if err != nil {
		return "", err
	}
	s, err := value.Eval(v, mem)
	if err != nil {
		return "", toExecErr(err)
	}
	return s, nil
}

func popNumber(fr *memory.Frame, mem *memory.Memory) (float64, error) {
	if v, err := fr.Peek(); err == nil {
		if n, ok := v.(value.Number); ok {
			_, _ = fr.Pop()
			return float64(n), nil
		}
	}
	s, err := popText(fr, mem)
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &memory.ExecutionError{Message: "expected a number, got " + strconv.Quote(s)}
	}
	return n, nil
}

func popBoolean(fr *memory.Frame, mem *memory.Memory) (bool, error) {
	v, err := fr.Pop()
	if err != nil {
		return false, err
	}
	if b, ok := v.(value.Boolean); ok {
		return bool(b), nil
	}
	s, err := value.Eval(v, mem)
	if err != nil {
		return false, toExecErr(err)
	}
	return s == "true", nil
}

func toNumber(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}
