package builtin

import (
	"encoding/json"
	"log/slog"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/mung"
	"github.com/goccy/go-yaml"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// All returns a new instance of every built-in transform.
func All() []*Transform {
	return []*Transform{
		NewTransform("upper", stringFunc(strings.ToUpper)),
		NewTransform("lower", stringFunc(strings.ToLower)),
		NewTransform("title", stringFunc(title)),
		NewTransform("trim", stringFunc(strings.TrimSpace)),
		NewTransform("quote", stringFunc(strconv.Quote)),
		NewTransform("json", jsonText),
		NewTransform("yaml", yamlText),
		NewTransform("path", pathList),
		NewTransform("len", length),
	}
}

func title(s string) string {
	// A Caser holds state and cannot be shared between goroutines.
	return cases.Title(language.Und).String(s)
}

func jsonText(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", ErrUnsupportedValue.Wrap(err)
	}

	return string(data), nil
}

func yamlText(value any) (string, error) {
	data, err := yaml.MarshalWithOptions(value, yaml.Flow(true))
	if err != nil {
		return "", ErrUnsupportedValue.Wrap(err)
	}

	return strings.TrimSuffix(string(data), "\n"), nil
}

// pathList joins and normalizes PATH-style lists. A slice contributes one
// subject per element; anything else is read as a single list.
func pathList(value any) (string, error) {
	var items []string

	switch v := value.(type) {
	case []string:
		items = v

	case []any:
		for _, e := range v {
			items = append(items, text(e))
		}

	default:
		items = []string{text(v)}
	}

	return mung.Make(
		mung.WithSubjectItems(items...),
		mung.WithDelim(string(os.PathListSeparator)),
	).String(), nil
}

func length(value any) (string, error) {
	switch v := value.(type) {
	case nil:
		return "0", nil

	case string:
		return strconv.Itoa(utf8.RuneCountInString(v)), nil
	}

	v := reflect.ValueOf(value)

	switch v.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Chan:
		return strconv.Itoa(v.Len()), nil

	default:
		return "", ErrUnsupportedValue.With(
			slog.String("type", reflect.TypeOf(value).String()))
	}
}
