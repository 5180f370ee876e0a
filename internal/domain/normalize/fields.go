package normalize

import (
	"math"
	"strconv"
	"strings"

	jsoniter "github.com/json-iterator/go"
)

// Upstream field names. Entry lists appear under different names depending
// on the product; starterAliases is tried in order and the first array wins.
const (
	fieldID          = "id"
	fieldRaces       = "races"
	fieldDate        = "date"
	fieldNumber      = "number"
	fieldDistance    = "distance"
	fieldStartMethod = "startMethod"
	fieldTrack       = "track"
	fieldName        = "name"
	fieldHorse       = "horse"
	fieldTrainer     = "trainer"
	fieldDriver      = "driver"
	fieldFirstName   = "firstName"
	fieldLastName    = "lastName"
)

var starterAliases = [...]string{"starts", "start", "participants"}

// text returns the node as a string, or def when the node is absent or null.
// Containers render as the empty string.
func text(node jsoniter.Any, def string) string {
	switch node.ValueType() {
	case jsoniter.InvalidValue, jsoniter.NilValue:
		return def
	case jsoniter.ObjectValue, jsoniter.ArrayValue:
		return ""
	default:
		return node.ToString()
	}
}

// integer returns the node as an int, or 0 when it has no integral value.
// Numbers are truncated toward zero and strings must hold a plain number,
// so "2140m" is 0 rather than 2140.
func integer(node jsoniter.Any) int {
	switch node.ValueType() {
	case jsoniter.NumberValue:
		return truncate(node.ToFloat64())
	case jsoniter.StringValue:
		s := strings.TrimSpace(node.ToString())
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return truncate(f)
		}
		return 0
	case jsoniter.BoolValue:
		if node.ToBool() {
			return 1
		}
		return 0
	default:
		return 0
	}
}

func truncate(f float64) int {
	if math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0
	}
	return int(f)
}

// elements returns the items of an array node, or nil for anything else.
func elements(node jsoniter.Any) []jsoniter.Any {
	if node.ValueType() != jsoniter.ArrayValue {
		return nil
	}
	n := node.Size()
	out := make([]jsoniter.Any, n)
	for i := 0; i < n; i++ {
		out[i] = node.Get(i)
	}
	return out
}

// findStarters resolves the entry list of a race through starterAliases.
func findStarters(race jsoniter.Any) (jsoniter.Any, string, bool) {
	for _, alias := range starterAliases {
		node := race.Get(alias)
		if node.ValueType() == jsoniter.ArrayValue {
			return node, alias, true
		}
	}
	return nil, "", false
}
