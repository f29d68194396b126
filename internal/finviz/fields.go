package finviz

import (
	"strings"

	"github.com/seenimoa/finvizlite/pkg/models"
)

// Snapshot-table labels with special parsing rules.
const (
	label52WRange   = "52W Range"
	labelVolatility = "Volatility"
	labelOptionable = "Optionable"
	labelShortable  = "Shortable"
	labelEPSNextY   = "EPS next Y"

	// finviz prints "EPS next Y" twice: once as a value, once as a growth rate.
	labelEPSNextYPct = labelEPSNextY + " Percentage"
)

// compoundField describes a value that splits into several derived labels.
type compoundField struct {
	labels  []string
	indices []int // token positions after splitting on whitespace
}

var compoundFields = map[string]compoundField{
	// "10.00 - 25.00"
	label52WRange: {
		labels:  []string{"52W Range From", "52W Range To"},
		indices: []int{0, 2},
	},
	// "2.10% 1.95%"
	labelVolatility: {
		labels:  []string{"Volatility W", "Volatility M"},
		indices: []int{0, 1},
	},
}

// ParseFields converts the flattened cells of the snapshot table into a
// fundamentals record. Even positions are labels and odd positions values; a
// trailing label without a value is paired with "".
//
// In raw mode values are stored as they appear on the page. Otherwise values
// are normalized to numbers where possible and the boolean flags become bool.
// A pair that cannot be parsed is stored raw under its label; ParseFields
// never drops a label.
func ParseFields(cells []string, raw bool) models.Fundamentals {
	out := make(models.Fundamentals, len(cells)/2+4)
	for i := 0; i < len(cells); i += 2 {
		label := strings.TrimSpace(cells[i])
		value := ""
		if i+1 < len(cells) {
			value = strings.TrimSpace(cells[i+1])
		}
		parseField(out, label, value, raw)
	}
	return out
}

func parseField(out models.Fundamentals, label, value string, raw bool) {
	if cf, ok := compoundFields[label]; ok {
		parseCompound(out, label, value, raw, cf)
		return
	}

	switch label {
	case labelOptionable, labelShortable:
		if raw {
			out[label] = value
		} else {
			out[label] = value == "Yes"
		}
		return
	case labelEPSNextY:
		if _, seen := out[label]; seen {
			label = labelEPSNextYPct
		}
	}

	if raw {
		out[label] = value
	} else {
		out[label] = normalizeOrRaw(value)
	}
}

// parseCompound splits value into the derived labels of cf. Derived labels are
// only written when every part parses; otherwise the raw value is kept under
// the original label.
func parseCompound(out models.Fundamentals, label, value string, raw bool, cf compoundField) {
	tokens := strings.Fields(value)
	parts := make([]any, len(cf.indices))
	for i, idx := range cf.indices {
		if idx >= len(tokens) {
			out[label] = value
			return
		}
		if raw {
			parts[i] = tokens[idx]
			continue
		}
		v, err := Normalize(tokens[idx])
		if err != nil {
			out[label] = value
			return
		}
		parts[i] = v
	}
	for i, l := range cf.labels {
		out[l] = parts[i]
	}
}
