package groupex

import (
	"encoding/json"
	"fmt"

	"github.com/dop251/goja"
	"github.com/rs/zerolog/log"
)

type feed struct {
	AaData [][]string `json:"aaData"`
}

// decodeRows parses the feed body. The endpoint sometimes serves a JS
// object literal rather than strict JSON (unquoted keys, trailing
// commas); those are evaluated in a sandboxed goja VM instead of being
// rejected.
func decodeRows(body []byte) ([][]string, error) {
	var f feed
	if err := json.Unmarshal(body, &f); err == nil {
		return f.AaData, nil
	}

	log.Debug().Msg("Feed body is not strict JSON, evaluating as JS literal")

	vm := goja.New()
	val, err := vm.RunString("(" + string(body) + ")")
	if err != nil {
		return nil, fmt.Errorf("schedule feed is neither JSON nor a JS literal: %w", err)
	}

	obj, ok := val.Export().(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("unexpected feed shape %T", val.Export())
	}
	raw, ok := obj["aaData"].([]interface{})
	if !ok {
		return nil, fmt.Errorf("schedule feed has no aaData rows")
	}

	rows := make([][]string, 0, len(raw))
	for _, r := range raw {
		items, ok := r.([]interface{})
		if !ok {
			continue
		}
		row := make([]string, 0, len(items))
		for _, item := range items {
			row = append(row, fmt.Sprintf("%v", item))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
