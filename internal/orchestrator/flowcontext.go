package orchestrator

import (
	"fmt"
	"time"
)

// FlowContext carries data through a flow run. Input holds the caller's
// parameters, Process holds intermediate values steps hand to each other,
// Output holds what the caller gets back.
type FlowContext struct {
	Input   map[string]any
	Process map[string]any
	Output  map[string]any
}

func NewFlowContext(input map[string]any) *FlowContext {
	if input == nil {
		input = make(map[string]any)
	}
	return &FlowContext{
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
	}
}

func (fc *FlowContext) ExtractString(key string) string {
	raw, ok := fc.Input[key]
	if !ok {
		return ""
	}
	str, _ := raw.(string)
	return str
}

func (fc *FlowContext) ExtractTime(key string) (time.Time, error) {
	raw, ok := fc.Input[key]
	if !ok {
		return time.Time{}, MissingParamErr(key)
	}
	switch v := raw.(type) {
	case time.Time:
		return v, nil
	case string:
		parsed, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return time.Time{}, fmt.Errorf("param [%v] is not a valid RFC3339 timestamp: %w", key, err)
		}
		return parsed, nil
	default:
		return time.Time{}, fmt.Errorf("param [%v] has unsupported type %T", key, raw)
	}
}

func IsMissing(str string) bool {
	return len(str) == 0
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}
