package salesforce

import (
	"encoding/json"
	"io"

	"github.com/rotisserie/eris"
)

func decodeJSON(r io.Reader, out any) error {
	return eris.Wrap(json.NewDecoder(r).Decode(out), "decode json")
}
