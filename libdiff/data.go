package libdiff

import (
	"encoding/json"

	jsonpatch "github.com/evanphx/json-patch"
)

// Data returns the JSON merge patch which turns from into to. Equal
// data yields "{}".
func Data(from, to map[string]any) ([]byte, error) {
	a, err := json.Marshal(from)
	if err != nil {
		return nil, err
	}
	b, err := json.Marshal(to)
	if err != nil {
		return nil, err
	}
	return jsonpatch.CreateMergePatch(a, b)
}
