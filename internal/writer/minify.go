package writer

import (
	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	mjson "github.com/tdewolff/minify/v2/json"
)

const mimeJSON = "application/json"

// Minify strips the separating whitespace from the writer output.
func Minify(text string) (string, error) {
	m := minify.New()
	m.AddFunc(mimeJSON, mjson.Minify)

	out, err := m.String(mimeJSON, text)
	if err != nil {
		return "", errors.Wrap(err, "minify json")
	}
	return out, nil
}
